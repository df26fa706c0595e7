package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"starnotary/block"
	"starnotary/config"
	"starnotary/errors"
	"starnotary/exception"
	"starnotary/interfaces"
	"starnotary/jsonx"
	"starnotary/logx"
)

// --- Error mapping ---

// RPC error codes per registry error code.
const (
	codeInternal         jrpc2.Code = -32000
	codeClaimExpired     jrpc2.Code = -32001
	codeInvalidSignature jrpc2.Code = -32002
	codeChainIntegrity   jrpc2.Code = -32003
	codeInvalidRequest   jrpc2.Code = -32600
)

func rpcCode(code errors.ClaimErrorCode) jrpc2.Code {
	switch code {
	case errors.ErrCodeClaimExpired:
		return codeClaimExpired
	case errors.ErrCodeInvalidSignature:
		return codeInvalidSignature
	case errors.ErrCodeChainIntegrity:
		return codeChainIntegrity
	case errors.ErrCodeInvalidRequest:
		return codeInvalidRequest
	}
	return codeInternal
}

// toJRPC2Error converts a registry error (whose Error() text is the marshaled
// taxonomy struct) into a typed jrpc2 error with the struct as data.
func toJRPC2Error(e error) error {
	if e == nil {
		return nil
	}
	var chainError errors.ChainError
	if err := jsonx.Unmarshal([]byte(e.Error()), &chainError); err == nil && chainError.Code != "" {
		if chainError.Code == errors.ErrCodeChainIntegrity {
			return jrpc2.Errorf(rpcCode(chainError.Code), "%s", chainError.Message).WithData(chainError)
		}
		claimError := errors.ClaimError{Code: chainError.Code, Message: chainError.Message}
		return jrpc2.Errorf(rpcCode(claimError.Code), "%s", claimError.Message).WithData(claimError)
	}
	return jrpc2.Errorf(codeInternal, "%s", e.Error())
}

// --- Params/Results ---

type challengeParams struct {
	Address string `json:"address"`
}

type challengeResponse struct {
	Message string `json:"message"`
}

type submitClaimParams struct {
	Address   string          `json:"address"`
	Message   string          `json:"message"`
	Signature string          `json:"signature"`
	Star      json.RawMessage `json:"star"`
}

type blockInfo struct {
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
	Body      string `json:"body"`
}

type getHeightResponse struct {
	Height int64 `json:"height"`
}

type getBlockByHashRequest struct {
	Hash string `json:"hash"`
}

type getBlockByHeightRequest struct {
	Height uint64 `json:"height"`
}

// getBlockResponse reports absence via Found; a missing block is a result,
// not an RPC error.
type getBlockResponse struct {
	Found bool       `json:"found"`
	Block *blockInfo `json:"block,omitempty"`
}

type getClaimsRequest struct {
	Address string `json:"address"`
}

type starClaimInfo struct {
	Owner string          `json:"owner"`
	Star  json.RawMessage `json:"star"`
}

type getClaimsResponse struct {
	Claims []starClaimInfo `json:"claims"`
}

type validateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func toBlockInfo(b *block.Block) *blockInfo {
	if b == nil {
		return nil
	}
	return &blockInfo{
		Height:    b.Height,
		Timestamp: b.Timestamp,
		PrevHash:  b.PrevHash,
		Hash:      b.Hash,
		Body:      b.Body,
	}
}

// --- Server ---

type Server struct {
	addr         string
	registry     interfaces.Registry
	corsConfig   CORSConfig
	maxBodyBytes int64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func NewServer(addr string, registry interfaces.Registry, tuning *config.TuningConfig) *Server {
	if tuning == nil {
		tuning = config.DefaultTuningConfig()
	}
	return &Server{
		addr:         addr,
		registry:     registry,
		maxBodyBytes: tuning.MaxBodyBytes,
		corsConfig: CORSConfig{
			MaxAge: tuning.CORSMaxAge,
		},
	}
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(cfg CORSConfig) {
	s.corsConfig = cfg
}

// Handler returns the HTTP handler serving the JSON-RPC bridge, with CORS
// headers and a request-body cap applied.
func (s *Server) Handler() http.Handler {
	jh := jhttp.NewBridge(s.buildMethodMap(), &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if s.maxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		}
		jh.ServeHTTP(w, r)
	})
}

func (s *Server) Start() {
	http.Handle("/", s.Handler())
	exception.SafeGoWithPanic("jsonrpc", func() {
		logx.Info("JSONRPC", "Listening on ", s.addr)
		if err := http.ListenAndServe(s.addr, nil); err != nil {
			logx.Error("JSONRPC", "Server stopped: ", err)
		}
	})
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		"star.requestchallenge": handler.New(func(ctx context.Context, p challengeParams) (*challengeResponse, error) {
			return &challengeResponse{Message: s.registry.RequestChallenge(p.Address)}, nil
		}),
		"star.submitclaim": handler.New(func(ctx context.Context, p submitClaimParams) (*blockInfo, error) {
			b, err := s.registry.SubmitClaim(p.Address, p.Message, p.Signature, p.Star)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return toBlockInfo(b), nil
		}),
		"chain.getheight": handler.New(func(ctx context.Context) (*getHeightResponse, error) {
			return &getHeightResponse{Height: s.registry.Height()}, nil
		}),
		"chain.getblockbyhash": handler.New(func(ctx context.Context, p getBlockByHashRequest) (*getBlockResponse, error) {
			b := s.registry.GetBlockByHash(p.Hash)
			return &getBlockResponse{Found: b != nil, Block: toBlockInfo(b)}, nil
		}),
		"chain.getblockbyheight": handler.New(func(ctx context.Context, p getBlockByHeightRequest) (*getBlockResponse, error) {
			b := s.registry.GetBlockByHeight(p.Height)
			return &getBlockResponse{Found: b != nil, Block: toBlockInfo(b)}, nil
		}),
		"chain.getclaimsbyaddress": handler.New(func(ctx context.Context, p getClaimsRequest) (*getClaimsResponse, error) {
			claims := s.registry.GetClaimsByAddress(p.Address)
			out := make([]starClaimInfo, 0, len(claims))
			for _, c := range claims {
				out = append(out, starClaimInfo{Owner: c.Owner, Star: c.Star})
			}
			return &getClaimsResponse{Claims: out}, nil
		}),
		"chain.validate": handler.New(func(ctx context.Context) (*validateResponse, error) {
			findings := s.registry.Validate()
			return &validateResponse{Valid: len(findings) == 0, Errors: findings}, nil
		}),
	}
}

// --- Helpers ---

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsConfig.AllowedOrigins) > 0 {
		if s.corsConfig.AllowedOrigins[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			origin := r.Header.Get("Origin")
			for _, allowedOrigin := range s.corsConfig.AllowedOrigins {
				if origin == allowedOrigin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
	}

	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.corsConfig.AllowedMethods, ", "))
	}

	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.corsConfig.AllowedHeaders, ", "))
	}

	if s.corsConfig.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", s.corsConfig.MaxAge))
	}
}
