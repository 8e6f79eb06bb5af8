package profiler

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestStats(t *testing.T) {
	p := New()
	for i := 1; i <= 10; i++ {
		p.Record(PhaseDocument, time.Duration(i)*time.Millisecond)
	}

	s := p.Stats(PhaseDocument)
	if s.Count != 10 {
		t.Errorf("Count = %d, expected 10", s.Count)
	}
	if s.Total != 55*time.Millisecond {
		t.Errorf("Total = %v, expected 55ms", s.Total)
	}
	if s.Min != time.Millisecond || s.Max != 10*time.Millisecond {
		t.Errorf("Min/Max = %v/%v", s.Min, s.Max)
	}
	if s.Median != 6*time.Millisecond {
		t.Errorf("Median = %v, expected 6ms", s.Median)
	}
	if s.P95 != 10*time.Millisecond {
		t.Errorf("P95 = %v, expected 10ms", s.P95)
	}
}

func TestTimer(t *testing.T) {
	p := New()
	timer := p.Start(PhaseTrain)
	time.Sleep(time.Millisecond)
	if elapsed := timer.Stop(); elapsed <= 0 {
		t.Errorf("elapsed = %v", elapsed)
	}

	if s := p.Stats(PhaseTrain); s.Count != 1 {
		t.Errorf("Count = %d, expected 1", s.Count)
	}
	if s := p.Stats(PhaseLoad); s.Count != 0 {
		t.Errorf("unrecorded phase Count = %d", s.Count)
	}
}

func TestNilProfiler(t *testing.T) {
	var p *Profiler
	p.Start(PhaseClassify).Stop()
	p.Record(PhaseOutput, time.Second)

	if len(p.All()) != 0 {
		t.Error("nil profiler should record nothing")
	}

	var buf bytes.Buffer
	p.Report(&buf)
	if !strings.Contains(buf.String(), "No timing data") {
		t.Errorf("unexpected report: %q", buf.String())
	}
}

func TestReport(t *testing.T) {
	p := New()
	p.Record(PhaseTokenize, 2*time.Millisecond)
	p.Record(PhaseTrain, 3*time.Second)

	var buf bytes.Buffer
	p.Report(&buf)

	out := buf.String()
	for _, want := range []string{"tokenize", "train", "3.000s"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	all := p.All()
	if len(all) != 2 || all[0].Phase != PhaseTokenize {
		t.Errorf("All() not sorted by phase: %+v", all)
	}
}
