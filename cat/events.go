package cat

func (s *Service) setUpEventList(p *SetEventListParams) {
	s.events = [EventCount]bool{}
	for _, event := range p.Events {
		if int(event) < EventCount {
			s.events[event] = true
		}
	}
	s.log.Debugf("event list %v", p.Events)
	s.sendTerminalResponse(p.Details(), OK, nil, nil)
}

func (s *Service) handleEventResponse(response Response) {
	event := response.Event
	if int(event) >= EventCount || !s.events[event] {
		s.log.Infof("dropping event %s, not enabled", event)
		return
	}

	envelope, err := EncodeEventDownload(response)
	if err != nil {
		s.log.Errorf("cannot encode event %s: %v", event, err)
		return
	}
	s.sendEnvelope(envelope)

	if event.OneShot() {
		s.events[event] = false
	}
}
