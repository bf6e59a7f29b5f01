package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/openweb3-io/xcbridge/address"
	"github.com/openweb3-io/xcbridge/journal"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Status string   `json:"status"`
	Chains []string `json:"chains"`
}

type AddressResponse struct {
	Chain      string         `json:"chain"`
	Address    string         `json:"address"`
	Valid      bool           `json:"valid"`
	Kind       xc.AccountKind `json:"kind,omitempty"`
	AccountKey string         `json:"accountKey,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

type BalanceResponse struct {
	Chain   string                 `json:"chain"`
	Address string                 `json:"address"`
	Asset   string                 `json:"asset"`
	Balance xc.BigInt              `json:"balance"`
	Human   xc.AmountHumanReadable `json:"human"`
}

func responseJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.S().Warnf("encode response: %v", err)
	}
}

// responseError writes err as a structured error. Unclassified errors are
// reported as internal without their text.
func responseError(w http.ResponseWriter, err error) {
	var xcErr *xc.Error
	if !errors.As(err, &xcErr) {
		zap.S().Errorf("api: %v", err)
		responseJSON(w, map[string]string{"message": "internal error"}, http.StatusInternalServerError)
		return
	}
	responseJSON(w, xcErr, statusFor(xcErr))
}

func statusFor(err *xc.Error) int {
	switch err.Category {
	case xc.CategoryValidation:
		return http.StatusBadRequest
	case xc.CategoryOracleUnavailable:
		return http.StatusServiceUnavailable
	}
	if err.Code == xc.CodeUnsupportedChain {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) endpoint(r *http.Request) (Endpoint, error) {
	name := chi.URLParam(r, "chain")
	endpoint, ok := s.chains[name]
	if !ok {
		return nil, xc.Errorf(xc.ErrUnsupportedChain, "unknown chain %q", name)
	}
	return endpoint, nil
}

func codecFor(cfg *xc.ChainConfig) *address.Codec {
	return address.NewCodec(address.WithSS58Prefix(cfg.SS58Prefix))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	responseJSON(w, &HealthResponse{Status: "ok", Chains: s.order}, http.StatusOK)
}

func (s *Server) address(w http.ResponseWriter, r *http.Request) {
	endpoint, err := s.endpoint(r)
	if err != nil {
		responseError(w, err)
		return
	}
	cfg := endpoint.Config()
	addr := chi.URLParam(r, "address")
	resp := &AddressResponse{Chain: cfg.Name, Address: addr}

	loc, err := codecFor(cfg).ToRoutingLocation(addr, cfg.Blockchain, cfg.RoutingID)
	if err != nil {
		var xcErr *xc.Error
		if errors.As(err, &xcErr) {
			if reason, ok := xcErr.Details["context"].(string); ok {
				resp.Reason = reason
			}
		}
		responseJSON(w, resp, http.StatusOK)
		return
	}
	resp.Valid = true
	resp.Kind = loc.Kind
	resp.AccountKey = "0x" + hex.EncodeToString(loc.AccountKey)
	responseJSON(w, resp, http.StatusOK)
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	endpoint, err := s.endpoint(r)
	if err != nil {
		responseError(w, err)
		return
	}
	cfg := endpoint.Config()
	addr := chi.URLParam(r, "address")
	if !codecFor(cfg).Validate(addr, cfg.Blockchain) {
		responseError(w, xc.Errorf(xc.ErrInvalidDestination, "invalid %s address %q", cfg.Name, addr))
		return
	}
	symbol := r.URL.Query().Get("asset")
	asset, ok := cfg.FindAsset(symbol)
	if !ok {
		responseError(w, xc.Errorf(xc.ErrInvalidAmount, "unknown asset %q on %s", symbol, cfg.Name))
		return
	}

	var balance xc.BigInt
	if asset.Native {
		balance, err = endpoint.FetchNativeBalance(r.Context(), xc.Address(addr))
	} else {
		balance, err = endpoint.FetchAssetBalance(r.Context(), xc.Address(addr), asset)
	}
	if err != nil {
		if xc.CodeOf(err) == "" {
			err = xc.WrapErr(xc.ErrOracleUnavailable, err)
		}
		responseError(w, err)
		return
	}
	responseJSON(w, &BalanceResponse{
		Chain:   cfg.Name,
		Address: addr,
		Asset:   asset.Symbol,
		Balance: balance,
		Human:   balance.ToHuman(asset.Decimals),
	}, http.StatusOK)
}

func (s *Server) getOperation(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	op, err := s.journal.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, journal.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		responseError(w, err)
		return
	}
	responseJSON(w, op, http.StatusOK)
}

func (s *Server) listOperations(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	status := journal.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = journal.StatusFailed
	}
	if !status.Valid() {
		http.Error(w, "unknown status "+string(status), http.StatusBadRequest)
		return
	}
	ops, err := s.journal.ListByStatus(r.Context(), status)
	if err != nil {
		responseError(w, err)
		return
	}
	responseJSON(w, ops, http.StatusOK)
}
