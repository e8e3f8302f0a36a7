package dvdvm

import "github.com/golang/glog"

// GlogSink forwards events to glog. Malformed commands and rejected register
// writes are warnings, everything else is logged at Verbosity.
type GlogSink struct {
	Verbosity glog.Level
}

func (s GlogSink) Event(e Event) {
	switch e.Outcome {
	case RegisterWriteRejected, MalformedCommand:
		glog.Warning(e.String())
	default:
		glog.V(s.Verbosity).Info(e.String())
	}
}
