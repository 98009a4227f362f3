/*
Package cat implements the terminal side of the card application toolkit of a SIM.

The radio delivers proactive commands of the UICC as hex encoded BER-TLV data. The Service of a slot
decodes them, answers the commands it can handle on its own, and hands the others to the application
through a Broadcaster. The application answers with a Response, which the Service turns into a
terminal response or an envelope for the radio.

References:
  - [CAT] ETSI TS 102.223 Card Application Toolkit
  - [USIM] ETSI TS 131.102 Characteristics of the USIM application
  - [GSM] 3GPP TS 23.038 and 23.040
*/
package cat
