package cat

import "time"

// DTMFPauseDigit stands for a pause in a DTMF string.
const DTMFPauseDigit = 'P'

type dtmfSession struct {
	details CommandDetails
	digits  string
	pos     int
	timer   *time.Timer
}

func (s *Service) startDTMF(p *DTMFParams) {
	details := p.Details()
	if !s.inCall() {
		s.log.Infof("not in a call, cannot send DTMF %q", p.Digits)
		s.sendTerminalResponse(details, TerminalCrntlyUnableToProcess, []byte{byte(NotInSpeechCall)}, nil)
		return
	}

	s.abortDTMF()
	s.dtmf = &dtmfSession{details: details, digits: p.Digits}
	s.nextDTMFDigit(s.dtmf)
}

func (s *Service) inCall() bool {
	if s.deps.Telephony == nil {
		return false
	}
	inCall, err := s.deps.Telephony.InCall(s.ctx)
	if err != nil {
		s.log.Errorf("cannot read the call state: %v", err)
		return false
	}
	return inCall
}

func (s *Service) nextDTMFDigit(session *dtmfSession) {
	if s.dtmf != session {
		return
	}
	if session.pos >= len(session.digits) {
		s.dtmf = nil
		s.sendTerminalResponse(session.details, OK, nil, nil)
		return
	}

	digit := session.digits[session.pos]
	session.pos++
	if digit == DTMFPauseDigit {
		session.timer = time.AfterFunc(s.opts.DTMFPause, func() {
			s.mailbox.Post(func() {
				s.nextDTMFDigit(session)
			})
		})
		return
	}

	s.deps.Telephony.SendDTMF(digit, func(err error) {
		s.mailbox.Post(func() {
			s.dtmfDigitSent(session, err)
		})
	})
}

func (s *Service) dtmfDigitSent(session *dtmfSession, err error) {
	if s.dtmf != session {
		return
	}
	if err != nil {
		s.log.Errorf("cannot send DTMF digit: %v", err)
		s.dtmf = nil
		s.sendTerminalResponse(session.details, TerminalCrntlyUnableToProcess, []byte{byte(BusySendDTMF)}, nil)
		return
	}
	s.nextDTMFDigit(session)
}

func (s *Service) abortDTMF() {
	if s.dtmf == nil {
		return
	}
	if s.dtmf.timer != nil {
		s.dtmf.timer.Stop()
	}
	s.dtmf = nil
}
