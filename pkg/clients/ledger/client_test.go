package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedClientConfirms(t *testing.T) {
	client := NewSimulatedClient(10*time.Millisecond, func() string { return "0xdeadbeef" })

	confirmation, err := client.Confirm(context.Background(), ConfirmRequest{BatchID: "BTH001", Action: "verify"})
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", confirmation.TxID)
}

func TestSimulatedClientHonorsContext(t *testing.T) {
	client := NewSimulatedClient(time.Minute, func() string { return "0xnever" })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Confirm(ctx, ConfirmRequest{BatchID: "BTH001", Action: "verify"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
