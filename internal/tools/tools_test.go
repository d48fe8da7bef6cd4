package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/summitrentals/voice-service/internal/domain"
)

type fakeEquipment struct {
	items []*domain.Equipment
	err   error
	query string
}

func (f *fakeEquipment) Search(ctx context.Context, query string) ([]*domain.Equipment, error) {
	f.query = query
	return f.items, f.err
}

type fakeContacts struct {
	contact *domain.Contact
	err     error
}

func (f *fakeContacts) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.contact == nil {
		return nil, domain.ErrNotFound
	}
	return f.contact, nil
}

func (f *fakeContacts) Upsert(ctx context.Context, phone string, patch domain.ContactPatch, callAt time.Time) (*domain.Contact, error) {
	return nil, errors.New("not used")
}

type fakeCallbacks struct {
	created *domain.CallbackRequest
	err     error
}

func (f *fakeCallbacks) Create(ctx context.Context, req *domain.CallbackRequest) error {
	if f.err != nil {
		return f.err
	}
	f.created = req
	return nil
}

func (f *fakeCallbacks) UpdateStatus(ctx context.Context, id, status string) error { return nil }

func (f *fakeCallbacks) ListPending(ctx context.Context, clientID string) ([]*domain.CallbackRequest, error) {
	return nil, nil
}

type fakeClients struct {
	def *domain.Client
	err error
}

func (f *fakeClients) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeClients) GetByPhoneLineID(ctx context.Context, phoneLineID string) (*domain.Client, error) {
	return f.GetDefault(ctx)
}

func (f *fakeClients) GetDefault(ctx context.Context) (*domain.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.def, nil
}

type fakeController struct {
	err         error
	controlURL  string
	destination string
	brief       string
	message     string
	calls       int
}

func (f *fakeController) Transfer(ctx context.Context, controlURL, destinationNumber, handoffBrief, callerMessage string) error {
	f.calls++
	f.controlURL = controlURL
	f.destination = destinationNumber
	f.brief = handoffBrief
	f.message = callerMessage
	return f.err
}

type fakeSMS struct {
	enabled bool
	to      string
	body    string
	err     error
}

func (f *fakeSMS) Enabled() bool { return f.enabled }

func (f *fakeSMS) Send(to, body string) error {
	f.to = to
	f.body = body
	return f.err
}

func callInfo(client *domain.Client) *CallInfo {
	return &CallInfo{
		CallID:      "call-1",
		CallerPhone: "+15550001111",
		ControlURL:  "https://runtime.example/control/call-1",
		Client:      client,
	}
}

func TestParseArgumentsShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]interface{}
	}{
		{"native object", `{"query":"excavator"}`, map[string]interface{}{"query": "excavator"}},
		{"json-encoded string", `"{\"query\":\"excavator\"}"`, map[string]interface{}{"query": "excavator"}},
		{"garbage degrades to empty", `not json at all`, map[string]interface{}{}},
		{"empty input", ``, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseArguments(json.RawMessage(tt.raw))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	d := NewDispatcher(NewRegistry())

	outcome := d.Dispatch(context.Background(), []ToolCall{
		{ID: "tc-1", Function: ToolFunction{Name: "order_pizza"}},
	}, callInfo(nil))

	require.NoError(t, outcome.Err)
	require.False(t, outcome.Async)
	require.Equal(t, "tc-1", outcome.ToolCallID)
	require.Equal(t, ToolNotFoundResult, outcome.Result)
}

func TestDispatchEmptyBatch(t *testing.T) {
	d := NewDispatcher(NewRegistry())

	outcome := d.Dispatch(context.Background(), nil, callInfo(nil))
	require.Error(t, outcome.Err)
}

func TestDispatchProcessesFirstOfBatch(t *testing.T) {
	registry := NewRegistry()
	var ran []string
	registry.Register(&Definition{
		Name: "first_tool",
		Handler: func(ctx context.Context, args map[string]interface{}, info *CallInfo) (string, error) {
			ran = append(ran, "first_tool")
			return "first result", nil
		},
	})
	registry.Register(&Definition{
		Name: "second_tool",
		Handler: func(ctx context.Context, args map[string]interface{}, info *CallInfo) (string, error) {
			ran = append(ran, "second_tool")
			return "second result", nil
		},
	})

	d := NewDispatcher(registry)
	outcome := d.Dispatch(context.Background(), []ToolCall{
		{ID: "tc-1", Function: ToolFunction{Name: "first_tool"}},
		{ID: "tc-2", Function: ToolFunction{Name: "second_tool"}},
	}, callInfo(nil))

	require.Equal(t, []string{"first_tool"}, ran)
	require.Equal(t, "tc-1", outcome.ToolCallID)
	require.Equal(t, "first result", outcome.Result)
}

func TestDispatchRecoversPanic(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&Definition{
		Name: "explosive",
		Handler: func(ctx context.Context, args map[string]interface{}, info *CallInfo) (string, error) {
			panic("boom")
		},
	})

	d := NewDispatcher(registry)
	outcome := d.Dispatch(context.Background(), []ToolCall{
		{ID: "tc-1", Function: ToolFunction{Name: "explosive"}},
	}, callInfo(nil))

	require.Error(t, outcome.Err)
	require.Contains(t, outcome.Err.Error(), "panicked")
}

func TestInventoryExecute(t *testing.T) {
	equipment := &fakeEquipment{items: []*domain.Equipment{
		{Name: "Kubota KX040 Mini Excavator", Available: true, DailyRate: 325},
		{Name: "CAT 305 Mini Excavator", Available: false, DailyRate: 410},
	}}
	tool := NewInventoryTool(equipment)

	result, err := tool.Execute(context.Background(),
		map[string]interface{}{"query": "mini excavator"}, callInfo(nil))

	require.NoError(t, err)
	require.Equal(t, "mini excavator", equipment.query)
	require.Contains(t, result, "Kubota KX040 Mini Excavator, available now, at $325.00 per day")
	require.Contains(t, result, "CAT 305 Mini Excavator, currently rented out, at $410.00 per day")
}

func TestInventoryExecuteEmptyQuery(t *testing.T) {
	tool := NewInventoryTool(&fakeEquipment{})

	result, err := tool.Execute(context.Background(), map[string]interface{}{}, callInfo(nil))
	require.NoError(t, err)
	require.Equal(t, "What equipment are you looking for?", result)
}

func TestInventoryExecuteNoMatches(t *testing.T) {
	tool := NewInventoryTool(&fakeEquipment{})

	result, err := tool.Execute(context.Background(),
		map[string]interface{}{"query": "zeppelin"}, callInfo(nil))
	require.NoError(t, err)
	require.Contains(t, result, "couldn't find anything")
}

func TestInventoryExecuteSearchError(t *testing.T) {
	tool := NewInventoryTool(&fakeEquipment{err: errors.New("db down")})

	_, err := tool.Execute(context.Background(),
		map[string]interface{}{"query": "scissor lift"}, callInfo(nil))
	require.Error(t, err)
}

func TestTransferExecute(t *testing.T) {
	controller := &fakeController{}
	contacts := &fakeContacts{contact: &domain.Contact{
		Name: "Abhave", Company: "Ridgeline Construction", CallCount: 4,
	}}
	tool := NewTransferTool(contacts, controller)
	client := &domain.Client{
		TransferNumbers: domain.JSONB{"rentals": "+15557770000"},
	}

	result, err := tool.Execute(context.Background(),
		map[string]interface{}{"department": "Rentals", "reason": "quote for a skid steer"},
		callInfo(client))

	require.NoError(t, err)
	require.Empty(t, result)
	require.Equal(t, 1, controller.calls)
	require.Equal(t, "+15557770000", controller.destination)
	require.Contains(t, controller.brief, "Abhave")
	require.Contains(t, controller.brief, "quote for a skid steer")
	require.Contains(t, controller.message, "rentals")
}

func TestTransferExecuteFailsLoudly(t *testing.T) {
	client := &domain.Client{TransferNumbers: domain.JSONB{"rentals": "+15557770000"}}

	t.Run("no control handle", func(t *testing.T) {
		tool := NewTransferTool(&fakeContacts{}, &fakeController{})
		info := callInfo(client)
		info.ControlURL = ""

		_, err := tool.Execute(context.Background(),
			map[string]interface{}{"department": "rentals"}, info)
		require.ErrorIs(t, err, domain.ErrNoControlHandle)
	})

	t.Run("no resolved client", func(t *testing.T) {
		tool := NewTransferTool(&fakeContacts{}, &fakeController{})

		_, err := tool.Execute(context.Background(),
			map[string]interface{}{"department": "rentals"}, callInfo(nil))
		require.Error(t, err)
	})

	t.Run("unknown department", func(t *testing.T) {
		tool := NewTransferTool(&fakeContacts{}, &fakeController{})

		_, err := tool.Execute(context.Background(),
			map[string]interface{}{"department": "catering"}, callInfo(client))
		require.Error(t, err)
	})

	t.Run("controller failure", func(t *testing.T) {
		tool := NewTransferTool(&fakeContacts{}, &fakeController{err: errors.New("control channel refused")})

		_, err := tool.Execute(context.Background(),
			map[string]interface{}{"department": "rentals"}, callInfo(client))
		require.Error(t, err)
		require.Contains(t, err.Error(), "control channel refused")
	})
}

func TestTransferBriefDegradesWithoutHistory(t *testing.T) {
	controller := &fakeController{}
	tool := NewTransferTool(&fakeContacts{err: errors.New("directory down")}, controller)
	client := &domain.Client{TransferNumbers: domain.JSONB{"rentals": "+15557770000"}}

	_, err := tool.Execute(context.Background(),
		map[string]interface{}{"department": "rentals"}, callInfo(client))

	require.NoError(t, err)
	require.Contains(t, controller.brief, "no history on file")
}

func TestCallbackExecute(t *testing.T) {
	callbacks := &fakeCallbacks{}
	tool := NewCallbackTool(callbacks, &fakeClients{}, nil)
	client := &domain.Client{ID: "client-1", BusinessName: "Summit Equipment Rentals"}

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"name":           "Abhave",
		"preferred_time": "tomorrow morning around 9",
		"reason":         "extend trencher rental",
	}, callInfo(client))

	require.NoError(t, err)
	require.NotNil(t, callbacks.created)
	require.Equal(t, "client-1", callbacks.created.ClientID)
	require.Equal(t, "call-1", callbacks.created.CallID)
	require.Equal(t, "+15550001111", callbacks.created.CallerPhone)
	require.Equal(t, "tomorrow morning around 9", callbacks.created.PreferredTime)
	require.Equal(t, "rentals", callbacks.created.Department)
	require.Equal(t, domain.CallbackStatusPending, callbacks.created.Status)
	require.Contains(t, result, "Abhave")
	require.Contains(t, result, "tomorrow morning around 9")
}

func TestCallbackExecuteAsksForTime(t *testing.T) {
	tool := NewCallbackTool(&fakeCallbacks{}, &fakeClients{}, nil)

	result, err := tool.Execute(context.Background(), map[string]interface{}{}, callInfo(&domain.Client{ID: "c"}))
	require.NoError(t, err)
	require.Equal(t, "What day and time works best for the callback?", result)
}

func TestCallbackExecuteFallsBackToDefaultClient(t *testing.T) {
	callbacks := &fakeCallbacks{}
	clients := &fakeClients{def: &domain.Client{ID: "default-client"}}
	tool := NewCallbackTool(callbacks, clients, nil)

	_, err := tool.Execute(context.Background(),
		map[string]interface{}{"preferred_time": "Friday at 2 PM"}, callInfo(nil))

	require.NoError(t, err)
	require.Equal(t, "default-client", callbacks.created.ClientID)
}

func TestCallbackExecuteApologyWhenNoClient(t *testing.T) {
	tool := NewCallbackTool(&fakeCallbacks{}, &fakeClients{err: domain.ErrNotFound}, nil)

	result, err := tool.Execute(context.Background(),
		map[string]interface{}{"preferred_time": "Friday at 2 PM"}, callInfo(nil))

	require.NoError(t, err)
	require.Equal(t, CallbackApology, result)
}

func TestCallbackExecuteStoreFailure(t *testing.T) {
	tool := NewCallbackTool(&fakeCallbacks{err: errors.New("insert failed")}, &fakeClients{}, nil)

	_, err := tool.Execute(context.Background(),
		map[string]interface{}{"preferred_time": "Friday at 2 PM"},
		callInfo(&domain.Client{ID: "c"}))
	require.Error(t, err)
}

func TestCallbackConfirmationSMS(t *testing.T) {
	client := &domain.Client{
		ID:           "client-1",
		BusinessName: "Summit Equipment Rentals",
		Features:     domain.JSONB{domain.FeatureSMSConfirmations: true},
	}

	t.Run("sent when feature enabled", func(t *testing.T) {
		sms := &fakeSMS{enabled: true}
		tool := NewCallbackTool(&fakeCallbacks{}, &fakeClients{}, sms)

		_, err := tool.Execute(context.Background(),
			map[string]interface{}{"preferred_time": "Monday at 8 AM"}, callInfo(client))

		require.NoError(t, err)
		require.Equal(t, "+15550001111", sms.to)
		require.Contains(t, sms.body, "Monday at 8 AM")
	})

	t.Run("skipped when flag off", func(t *testing.T) {
		sms := &fakeSMS{enabled: true}
		tool := NewCallbackTool(&fakeCallbacks{}, &fakeClients{}, sms)

		_, err := tool.Execute(context.Background(),
			map[string]interface{}{"preferred_time": "Monday at 8 AM"},
			callInfo(&domain.Client{ID: "client-2"}))

		require.NoError(t, err)
		require.Empty(t, sms.to)
	})

	t.Run("send failure does not fail the tool", func(t *testing.T) {
		sms := &fakeSMS{enabled: true, err: errors.New("carrier rejected")}
		tool := NewCallbackTool(&fakeCallbacks{}, &fakeClients{}, sms)

		_, err := tool.Execute(context.Background(),
			map[string]interface{}{"preferred_time": "Monday at 8 AM"}, callInfo(client))
		require.NoError(t, err)
	})
}

func TestStandardRegistryHasAllTools(t *testing.T) {
	r := NewStandardRegistry(&fakeEquipment{}, &fakeContacts{}, &fakeCallbacks{}, &fakeClients{}, &fakeController{}, nil)

	for _, name := range []string{ToolNameCheckInventory, ToolNameTransferCall, ToolNameScheduleCallback} {
		def, ok := r.Get(name)
		require.True(t, ok, name)
		require.NotNil(t, def.Handler)
	}

	transfer, _ := r.Get(ToolNameTransferCall)
	require.True(t, transfer.Async)
	inventory, _ := r.Get(ToolNameCheckInventory)
	require.False(t, inventory.Async)
}
