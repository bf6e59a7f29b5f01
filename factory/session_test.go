package factory

import (
	"errors"
	"testing"

	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/journal"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type closingChain struct {
	xclient.Chain
	closed int
}

func (c *closingChain) Config() *xc.ChainConfig { return &xc.ChainConfig{} }

func (c *closingChain) Close() error {
	c.closed++
	return nil
}

type closingJournal struct {
	journal.Journal
	closed int
	err    error
}

func (j *closingJournal) Close() error {
	j.closed++
	return j.err
}

func TestSessionCloseReleasesJournal(t *testing.T) {
	source, target := &closingChain{}, &closingChain{}
	j := &closingJournal{err: errors.New("pool busy")}
	session := &Session{Source: source, Target: target, Journal: j, logger: zap.NewNop()}

	require.EqualError(t, session.Close(), "pool busy")
	require.EqualError(t, session.Close(), "pool busy")
	require.Equal(t, 1, j.closed)
	require.Equal(t, 1, source.closed)
	require.Equal(t, 1, target.closed)
}

func TestSessionCloseWithoutJournal(t *testing.T) {
	source, target := &closingChain{}, &closingChain{}
	session := &Session{Source: source, Target: target, logger: zap.NewNop()}

	require.NoError(t, session.Close())
	require.Equal(t, 1, source.closed)
}
