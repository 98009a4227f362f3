/*
Package bus connects the toolkit services with the applications through NSQ.

The Publisher sends a Notification for every command, session end and refresh of a slot to the command topic.
The applications answer with a ResponseEnvelope on the response topic, which the Consumer hands to the
service of the slot.
*/
package bus
