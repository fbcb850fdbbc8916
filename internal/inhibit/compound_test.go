package inhibit

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedStep builds an acquireStep that records what happened to it.
type scriptedStep struct {
	facility   Facility
	acquireErr error
	releaseErr error
	acquired   bool
	released   []Token
}

func (s *scriptedStep) step(cookie uint64) acquireStep {
	return acquireStep{
		facility: s.facility,
		do: func(ctx context.Context) (Token, error) {
			if s.acquireErr != nil {
				return Token{}, s.acquireErr
			}
			s.acquired = true
			return Token{Facility: s.facility, Cookie: cookie}, nil
		},
		undo: func(ctx context.Context, token Token) error {
			s.released = append(s.released, token)
			return s.releaseErr
		},
	}
}

func TestAcquireSequence_AllSucceed(t *testing.T) {
	first := &scriptedStep{facility: FacilityScreenSaver}
	second := &scriptedStep{facility: FacilityPowerManagement}

	tokens, err := acquireSequence(context.Background(),
		[]acquireStep{first.step(1), second.step(2)})
	if err != nil {
		t.Fatalf("acquireSequence() failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Facility != FacilityScreenSaver || tokens[0].Cookie != 1 {
		t.Errorf("first token = %+v", tokens[0])
	}
	if tokens[1].Facility != FacilityPowerManagement || tokens[1].Cookie != 2 {
		t.Errorf("second token = %+v", tokens[1])
	}
	if len(first.released) != 0 || len(second.released) != 0 {
		t.Error("no token should have been released on success")
	}
}

func TestAcquireSequence_SecondFails_RollsBackFirst(t *testing.T) {
	boom := errors.New("facility says no")
	first := &scriptedStep{facility: FacilityScreenSaver}
	second := &scriptedStep{facility: FacilityPowerManagement, acquireErr: boom}

	tokens, err := acquireSequence(context.Background(),
		[]acquireStep{first.step(7), second.step(8)})
	if err == nil {
		t.Fatal("acquireSequence() should have failed")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the facility error", err)
	}
	if tokens != nil {
		t.Errorf("got tokens %v on failure, want none", tokens)
	}
	if len(first.released) != 1 || first.released[0].Cookie != 7 {
		t.Errorf("first token not rolled back, released=%v", first.released)
	}
}

func TestAcquireSequence_RollbackFailureIsReported(t *testing.T) {
	boom := errors.New("second failed")
	undoBoom := errors.New("undo failed")
	first := &scriptedStep{facility: FacilityScreenSaver, releaseErr: undoBoom}
	second := &scriptedStep{facility: FacilityPowerManagement, acquireErr: boom}

	_, err := acquireSequence(context.Background(),
		[]acquireStep{first.step(1), second.step(2)})
	if err == nil {
		t.Fatal("acquireSequence() should have failed")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the original acquire error", err)
	}
	if !strings.Contains(err.Error(), "rollback") {
		t.Errorf("error %v does not mention the failed rollback", err)
	}
	if len(first.released) != 1 {
		t.Error("rollback was not attempted despite undo error")
	}
}

func TestAcquireSequence_FirstFails_NothingToRollBack(t *testing.T) {
	boom := errors.New("no bus")
	first := &scriptedStep{facility: FacilityScreenSaver, acquireErr: boom}
	second := &scriptedStep{facility: FacilityPowerManagement}

	_, err := acquireSequence(context.Background(),
		[]acquireStep{first.step(1), second.step(2)})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrap of %v", err, boom)
	}
	if second.acquired {
		t.Error("second step ran after first failed")
	}
}
