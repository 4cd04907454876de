package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/copyleftdev/labbench/internal/optimization"
)

// JSON-RPC 2.0 error codes
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeNotFound       = -32004
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

// handleJSONRPC handles JSON-RPC 2.0 requests
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, r, codeParseError, "Parse error", nil, nil)
		return
	}

	// Validate JSON-RPC 2.0 request
	if request.JSONRPC != "2.0" || request.Method == "" {
		s.respondWithError(w, r, codeInvalidRequest, "Invalid Request", request.ID, nil)
		return
	}

	var (
		result any
		err    error
	)
	switch request.Method {
	case "run.start":
		result, err = s.rpcRunStart(r.Context(), request.Params)
	case "run.get":
		result, err = s.rpcRunGet(r.Context(), request.Params)
	case "run.compare":
		result, err = s.rpcCompare(r.Context(), request.Params)
	case "objective.eval":
		result, err = s.rpcObjective(request.Params)
	default:
		s.respondWithError(w, r, codeMethodNotFound, "Method not found", request.ID, nil)
		return
	}

	if err != nil {
		code, message := rpcCodeFor(err)
		s.respondWithError(w, r, code, message, request.ID, err)
		return
	}

	respondJSON(w, http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: request.ID, Result: result})
}

func (s *Server) rpcRunStart(ctx context.Context, raw json.RawMessage) (any, error) {
	var p runParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return s.startRun(ctx, p)
}

func (s *Server) rpcRunGet(ctx context.Context, raw json.RawMessage) (any, error) {
	var p struct {
		ID string `json:"id"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return s.getRun(ctx, p.ID)
}

func (s *Server) rpcCompare(ctx context.Context, raw json.RawMessage) (any, error) {
	var p compareParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return s.compare(ctx, p)
}

func (s *Server) rpcObjective(raw json.RawMessage) (any, error) {
	var p struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.X == nil || p.Y == nil {
		return nil, optimization.InvalidInputf("x and y are required")
	}
	return s.evalObjective(*p.X, *p.Y)
}

// decodeParams accepts params either as an object or as a one-element array
// holding the object. Missing params decode to the zero value.
func decodeParams(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return optimization.InvalidInputf("invalid params: %v", err)
		}
		if len(list) == 0 {
			return nil
		}
		if len(list) > 1 {
			return optimization.InvalidInputf("expected a single params object, got %d", len(list))
		}
		raw = list[0]
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return optimization.InvalidInputf("invalid params: %v", err)
	}
	return nil
}

func rpcCodeFor(err error) (int, string) {
	switch {
	case errors.Is(err, optimization.ErrInvalidInput):
		return codeInvalidParams, "Invalid params"
	case errors.Is(err, optimization.ErrNotFound):
		return codeNotFound, "Not found"
	default:
		return codeServerError, "Server error"
	}
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, code int, message string, id any, cause error) {
	fields := []zap.Field{
		zap.Int("code", code),
		zap.String("message", message),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	s.logger.Warn("JSON-RPC error", fields...)

	e := &rpcError{Code: code, Message: message}
	if cause != nil {
		e.Data = cause.Error()
	}
	respondJSON(w, http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: id, Error: e})
}
