package fadecandy

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/kellydunn/go-opc"
)

type testSender struct {
	sends int
	fail  bool
}

func (s *testSender) Send(m *opc.Message) error {
	if s.fail {
		return fmt.Errorf("connection refused")
	}
	s.sends++
	return nil
}

func TestUnchangedFramesSkipped(t *testing.T) {
	sender := &testSender{}
	sink, err := NewSink(sender, 0, 4)
	if err != nil {
		t.Fatal(err)
	}

	// The first frame is always sent, even when black
	for i := 0; i != 3; i++ {
		if err := sink.Show(); err != nil {
			t.Fatal(err)
		}
	}
	if sender.sends != 1 || sink.Sent() != 1 || sink.Skipped() != 2 {
		t.Fatalf("sent %d, counted %d sent and %d skipped", sender.sends, sink.Sent(), sink.Skipped())
	}

	sink.SetPixel(3, color.RGBA{R: 0xFF, A: 0xFF})
	sink.SetPixel(4, color.RGBA{G: 0xFF, A: 0xFF})
	if err := sink.Show(); err != nil {
		t.Fatal(err)
	}
	if sender.sends != 2 {
		t.Errorf("changed frame not sent")
	}
}

func TestSendFailure(t *testing.T) {
	sender := &testSender{fail: true}
	sink, err := NewSink(sender, 1, 2)
	if err != nil {
		t.Fatal(err)
	}

	if errGo := sink.Show(); errGo == nil {
		t.Fatal("send failure not reported")
	}
	if sink.Sent() != 0 {
		t.Errorf("failed send counted")
	}

	// The frame that failed is retried
	sender.fail = false
	if err := sink.Show(); err != nil {
		t.Fatal(err)
	}
	if sender.sends != 1 || sink.Skipped() != 0 {
		t.Errorf("retry not sent, %d sends %d skipped", sender.sends, sink.Skipped())
	}
}

func TestStrandLimits(t *testing.T) {
	sender := &testSender{}
	for _, ledCount := range []int{0, MaxLEDs + 1, 30000, 0xFFFF} {
		if _, err := NewSink(sender, 0, ledCount); err == nil {
			t.Errorf("sink created for %d LEDs", ledCount)
		}
	}

	sink, err := NewSink(sender, 0, MaxLEDs)
	if err != nil {
		t.Fatal(err)
	}
	sink.SetPixel(MaxLEDs-1, color.RGBA{B: 0xFF, A: 0xFF})
	sink.SetPixel(MaxLEDs, color.RGBA{B: 0xFF, A: 0xFF})
	if errGo := sink.Show(); errGo != nil {
		t.Fatal(errGo)
	}
	if sender.sends != 1 {
		t.Errorf("full strand not sent")
	}
}
