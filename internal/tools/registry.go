// Package tools implements the mid-call tool execution registry. The voice
// runtime posts tool invocations the assistant requested; each registered
// tool is either sync (its textual result goes back in the same response
// cycle) or async (it performs a side effect and the runtime only gets an
// acknowledgement, having already moved on).
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// ToolNotFoundResult is returned for unregistered tool names. It is a normal
// sync result, not an error: the assistant can recover conversationally,
// whereas a failed request would drop the call.
const ToolNotFoundResult = "Tool not found."

// Tool name constants
const (
	ToolNameCheckInventory   = "check_inventory"
	ToolNameTransferCall     = "transfer_call"
	ToolNameScheduleCallback = "schedule_callback"
)

// CallInfo carries everything a handler may need about the live call.
type CallInfo struct {
	CallID      string
	CallerPhone string
	// ControlURL is the live-call-control handle for this call. Empty when
	// the runtime did not provide one; transfers then fail loudly.
	ControlURL string
	// Client is the resolved business account for the call's phone line.
	Client *domain.Client
}

// HandlerFunc executes one tool invocation and returns the spoken result.
type HandlerFunc func(ctx context.Context, args map[string]interface{}, info *CallInfo) (string, error)

// Definition is one registry entry.
type Definition struct {
	Name string
	// Async tools perform a side effect; the dispatcher acknowledges instead
	// of returning their result text.
	Async   bool
	Handler HandlerFunc
}

// Registry is the name-keyed tool table. It is built once at startup and
// injected into the session controller, never held as global state, so tests
// can substitute a fake.
type Registry struct {
	tools map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Definition)}
}

// Register adds a tool definition.
func (r *Registry) Register(def *Definition) {
	r.tools[def.Name] = def
	logger.Base().Info("registered tool", zap.String("name", def.Name), zap.Bool("async", def.Async))
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.tools[name]
	return def, ok
}

// ToolCall is one invocation in the runtime's batch.
type ToolCall struct {
	ID       string       `json:"id"`
	Function ToolFunction `json:"function"`
}

// ToolFunction carries the tool name and its arguments. Arguments arrive
// either as a native JSON object or as a JSON-encoded string, depending on
// the runtime version.
type ToolFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Outcome is the dispatcher's verdict on one invocation.
type Outcome struct {
	ToolCallID string
	// Async means the handler ran for its side effect; respond with a bare ack.
	Async bool
	// Result is the sync result text.
	Result string
	// Err is set when the handler failed. It must surface as a distinct
	// error response, never as silent success.
	Err error
}

// Dispatcher routes invocations to registered handlers.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch executes the first invocation of the batch. The runtime is not
// documented to send more than one; processing only the first is a recorded
// decision, not an accident — do not generalize silently.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []ToolCall, info *CallInfo) *Outcome {
	if len(calls) == 0 {
		return &Outcome{Err: fmt.Errorf("empty tool call batch")}
	}
	call := calls[0]
	if len(calls) > 1 {
		logger.Base().Warn("tool call batch has multiple entries, processing first only",
			zap.Int("count", len(calls)), zap.String("call_id", info.CallID))
	}

	def, ok := d.registry.Get(call.Function.Name)
	if !ok {
		logger.Base().Warn("unknown tool requested",
			zap.String("tool", call.Function.Name), zap.String("call_id", info.CallID))
		return &Outcome{ToolCallID: call.ID, Result: ToolNotFoundResult}
	}

	args := parseArguments(call.Function.Arguments)

	result, err := d.run(ctx, def, args, info)
	outcome := &Outcome{ToolCallID: call.ID, Async: def.Async, Result: result, Err: err}
	if err != nil {
		logger.Base().Error("tool execution failed",
			zap.String("tool", def.Name), zap.String("call_id", info.CallID), zap.Error(err))
	}
	return outcome
}

// run invokes the handler with panic recovery. A panicking handler surfaces
// as an error outcome.
func (d *Dispatcher) run(ctx context.Context, def *Definition, args map[string]interface{}, info *CallInfo) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", def.Name, r)
		}
	}()
	return def.Handler(ctx, args, info)
}

// parseArguments tolerates both wire shapes for tool arguments: a native
// JSON object or a JSON-encoded string. Anything unparseable degrades to an
// empty argument set rather than rejecting the call.
func parseArguments(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return map[string]interface{}{}
	}

	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err == nil {
		return args
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &args); err == nil {
			return args
		}
	}

	logger.Base().Warn("unparseable tool arguments, defaulting to empty", zap.ByteString("raw", raw))
	return map[string]interface{}{}
}

// stringArg extracts a string argument, empty when absent or not a string.
func stringArg(args map[string]interface{}, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
