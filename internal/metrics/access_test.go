package metrics

import (
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordgate/internal/ledger"
)

func TestAccess_ObserveDecision(t *testing.T) {
	a, err := NewAccess(prometheus.NewRegistry())
	require.NoError(t, err)

	a.ObserveDecision(OutcomeOwner)
	a.ObserveDecision(OutcomeDenied)
	a.ObserveDecision(OutcomeDenied)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.decisions.WithLabelValues(OutcomeOwner)))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.decisions.WithLabelValues(OutcomeDenied)))
}

func TestAccess_ObserveReceipt(t *testing.T) {
	a, err := NewAccess(prometheus.NewRegistry())
	require.NoError(t, err)

	a.ObserveReceipt(ledger.Receipt{Tx: ledger.Transaction{Kind: ledger.KindGrant}, Status: ledger.StatusApplied})
	a.ObserveReceipt(ledger.Receipt{Tx: ledger.Transaction{Kind: ledger.KindGrant}, Status: ledger.StatusPending})
	a.ObserveReceipt(ledger.Receipt{Tx: ledger.Transaction{Kind: ledger.KindRegister}, Status: ledger.StatusRejected})

	assert.Equal(t, 1.0, testutil.ToFloat64(a.transactions.WithLabelValues("grant_access", "applied")))
	assert.Equal(t, 0.0, testutil.ToFloat64(a.transactions.WithLabelValues("grant_access", "pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.transactions.WithLabelValues("register_record", "rejected")))
}

func TestAccess_CountBytes(t *testing.T) {
	a, err := NewAccess(prometheus.NewRegistry())
	require.NoError(t, err)

	body := a.CountBytes(io.NopCloser(strings.NewReader("0123456789")))
	buf := make([]byte, 4)
	_, err = io.ReadFull(body, buf)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	require.NoError(t, body.Close())

	assert.Equal(t, 4.0, testutil.ToFloat64(a.bytesServed))
}

func TestAccess_Nil(t *testing.T) {
	var a *Access
	a.ObserveDecision(OutcomeGranted)
	a.ObserveReceipt(ledger.Receipt{Status: ledger.StatusApplied})

	body := io.NopCloser(strings.NewReader("x"))
	assert.Equal(t, body, a.CountBytes(body))
}

func TestNewAccess_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewAccess(reg)
	require.NoError(t, err)

	_, err = NewAccess(reg)
	assert.Error(t, err)
}
