package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openweb3-io/xcbridge/journal"
	"github.com/openweb3-io/xcbridge/metrics"
	"github.com/openweb3-io/xcbridge/testutil"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type fakeEndpoint struct {
	cfg      *xc.ChainConfig
	balances map[string]xc.BigInt
	err      error
}

func (f *fakeEndpoint) Config() *xc.ChainConfig {
	return f.cfg
}

func (f *fakeEndpoint) FetchNativeBalance(ctx context.Context, address xc.Address) (xc.BigInt, error) {
	return f.FetchAssetBalance(ctx, address, f.cfg.NativeAsset())
}

func (f *fakeEndpoint) FetchAssetBalance(ctx context.Context, address xc.Address, asset *xc.Asset) (xc.BigInt, error) {
	if f.err != nil {
		return xc.BigInt{}, f.err
	}
	return f.balances[asset.Symbol+"/"+string(address)], nil
}

type ServerTestSuite struct {
	suite.Suite
	evm       *fakeEndpoint
	substrate *fakeEndpoint
	journal   *journal.MemoryJournal
	server    *httptest.Server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.evm = &fakeEndpoint{
		cfg: &xc.ChainConfig{
			Name: "moonbase-alpha", Blockchain: xc.BlockchainEVM, RoutingID: 1000,
			NativeSymbol: "DEV", Decimals: 18,
			Assets: []*xc.Asset{{Symbol: "xcUNIT", Contract: "0xFfFFfFff1FcaCBd218EDc0EbA20Fc2308C778080", Decimals: 12}},
		},
		balances: map[string]xc.BigInt{
			"xcUNIT/" + testutil.BaltatharEVM: xc.NewBigIntFromStr("1500000000000"),
		},
	}
	s.substrate = &fakeEndpoint{
		cfg: &xc.ChainConfig{
			Name: "sibling", Blockchain: xc.BlockchainSubstrate, RoutingID: 888, SS58Prefix: 42,
			NativeSymbol: "UNIT", Decimals: 12,
		},
		balances: map[string]xc.BigInt{
			"UNIT/" + testutil.AliceSS58: xc.NewBigIntFromStr("2000000000000"),
		},
	}
	s.journal = journal.NewMemoryJournal()

	collector := metrics.NewCollector()
	reg := prometheus.NewRegistry()
	s.Require().NoError(collector.Register(reg))
	collector.OnAttempt(xc.BlockchainEVM, 1)

	server := NewServer([]Endpoint{s.evm, s.substrate},
		WithJournal(s.journal),
		WithGatherer(reg),
		WithLogger(zap.NewNop()),
	)
	s.server = httptest.NewServer(server.Routes())
}

func (s *ServerTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ServerTestSuite) get(path string, out any) int {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *ServerTestSuite) TestHealth() {
	var resp HealthResponse
	s.Require().Equal(http.StatusOK, s.get("/health", &resp))
	s.Require().Equal("ok", resp.Status)
	s.Require().Equal([]string{"moonbase-alpha", "sibling"}, resp.Chains)
}

func (s *ServerTestSuite) TestAddress() {
	require := s.Require()

	var resp AddressResponse
	require.Equal(http.StatusOK, s.get("/address/sibling/"+testutil.AliceSS58, &resp))
	require.True(resp.Valid)
	require.Equal(xc.AccountId32, resp.Kind)
	require.Equal("0x"+testutil.AlicePublicKey, resp.AccountKey)

	resp = AddressResponse{}
	require.Equal(http.StatusOK, s.get("/address/moonbase-alpha/"+testutil.BaltatharEVM, &resp))
	require.True(resp.Valid)
	require.Equal(xc.AccountKey20, resp.Kind)

	resp = AddressResponse{}
	require.Equal(http.StatusOK, s.get("/address/sibling/"+testutil.BaltatharEVM, &resp))
	require.False(resp.Valid)
	require.NotEmpty(resp.Reason)

	require.Equal(http.StatusNotFound, s.get("/address/kusama/"+testutil.AliceSS58, nil))
}

func (s *ServerTestSuite) TestBalance() {
	require := s.Require()

	var resp BalanceResponse
	require.Equal(http.StatusOK, s.get("/balance/moonbase-alpha/"+testutil.BaltatharEVM+"?asset=xcUNIT", &resp))
	require.Equal("xcUNIT", resp.Asset)
	require.Equal("1500000000000", resp.Balance.String())
	require.Equal("1.5", resp.Human.String())

	resp = BalanceResponse{}
	require.Equal(http.StatusOK, s.get("/balance/sibling/"+testutil.AliceSS58, &resp))
	require.Equal("UNIT", resp.Asset)
	require.Equal("2", resp.Human.String())

	var apiErr xc.Error
	require.Equal(http.StatusBadRequest, s.get("/balance/sibling/not-an-address", &apiErr))
	require.Equal(xc.CodeInvalidDestination, apiErr.Code)

	require.Equal(http.StatusBadRequest, s.get("/balance/moonbase-alpha/"+testutil.BaltatharEVM+"?asset=DOGE", nil))

	s.evm.err = errors.New("dial tcp: connection refused")
	apiErr = xc.Error{}
	require.Equal(http.StatusServiceUnavailable, s.get("/balance/moonbase-alpha/"+testutil.BaltatharEVM, &apiErr))
	require.Equal(xc.CodeOracleUnavailable, apiErr.Code)
}

func (s *ServerTestSuite) TestOperations() {
	require := s.Require()
	ctx := context.Background()
	op := &journal.Operation{
		ID:          "7d3c2d8e-1b7a-4c55-9e0e-2f4a3c1b2a10",
		Direction:   xc.SourceToTarget,
		SourceChain: "moonbase-alpha",
		TargetChain: "sibling",
		Asset:       "xcUNIT",
		Amount:      "1000",
		Destination: testutil.AliceSS58,
		Status:      journal.StatusFinalized,
		TxHash:      "0xfeed",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(s.journal.Save(ctx, op))

	var got journal.Operation
	require.Equal(http.StatusOK, s.get("/operations/"+op.ID, &got))
	require.Equal(op.TxHash, got.TxHash)

	require.Equal(http.StatusNotFound, s.get("/operations/missing", nil))

	var list []*journal.Operation
	require.Equal(http.StatusOK, s.get("/operations?status=finalized", &list))
	require.Len(list, 1)

	list = nil
	require.Equal(http.StatusOK, s.get("/operations", &list))
	require.Empty(list)

	require.Equal(http.StatusBadRequest, s.get("/operations?status=bogus", nil))
}

func (s *ServerTestSuite) TestMetrics() {
	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().Contains(string(body), `xcbridge_submission_attempts_total{chain="evm"} 1`)
}
