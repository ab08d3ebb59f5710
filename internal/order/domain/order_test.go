package domain

import "testing"

func TestParseStatus(t *testing.T) {
	t.Run("known token, mixed case", func(t *testing.T) {
		s, err := ParseStatus("shipped")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s != StatusShipped {
			t.Errorf("expected SHIPPED, got %s", s)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		if _, err := ParseStatus("REFUNDED"); err != ErrInvalidStatus {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		if _, err := ParseStatus(""); err != ErrInvalidStatus {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})
}

func TestTransitionTable(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusProcessing},
		{StatusConfirmed, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range legal {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to Status }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusConfirmed, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusConfirmed, StatusConfirmed},
	}
	for _, tc := range illegal {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}
