package session

import jsoniter "github.com/json-iterator/go"

// Wire types for the Live API websocket protocol. Outbound messages use
// snake_case field names, inbound messages arrive in camelCase.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model             string           `json:"model"`
	GenerationConfig  generationConfig `json:"generation_config"`
	SystemInstruction *contentPayload  `json:"system_instruction,omitempty"`
	Tools             []toolPayload    `json:"tools,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"response_modalities"`
	SpeechConfig       *speechConfig `json:"speech_config,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voice_config"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuilt_voice_config"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voice_name"`
}

type contentPayload struct {
	Parts []partPayload `json:"parts"`
}

type partPayload struct {
	Text string `json:"text,omitempty"`
}

type toolPayload struct {
	FunctionDeclarations []ToolDeclaration `json:"function_declarations,omitempty"`
	GoogleSearch         *struct{}         `json:"google_search,omitempty"`
}

type toolResponseMessage struct {
	ToolResponse toolResponsePayload `json:"tool_response"`
}

type toolResponsePayload struct {
	FunctionResponses []functionResponse `json:"function_responses"`
}

type functionResponse struct {
	ID       string         `json:"id"`
	Response map[string]any `json:"response"`
}

type serverMessage struct {
	SetupComplete        jsoniter.RawMessage   `json:"setupComplete,omitempty"`
	ToolCall             *toolCallPayload      `json:"toolCall,omitempty"`
	ToolCallCancellation *toolCallCancellation `json:"toolCallCancellation,omitempty"`
	ServerContent        *serverContent        `json:"serverContent,omitempty"`
	GoAway               *goAway               `json:"goAway,omitempty"`
}

type toolCallPayload struct {
	FunctionCalls []functionCall `json:"functionCalls"`
}

type functionCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type toolCallCancellation struct {
	IDs []string `json:"ids,omitempty"`
}

type serverContent struct {
	TurnComplete bool       `json:"turnComplete,omitempty"`
	Interrupted  bool       `json:"interrupted,omitempty"`
	ModelTurn    *modelTurn `json:"modelTurn,omitempty"`
}

type modelTurn struct {
	Parts []serverPart `json:"parts"`
}

type serverPart struct {
	Text string `json:"text,omitempty"`
}

type goAway struct {
	TimeLeft string `json:"timeLeft,omitempty"`
}

// batch converts the wire payload into the public ToolCallBatch,
// preserving call order.
func (p *toolCallPayload) batch() ToolCallBatch {
	calls := make([]ToolCall, 0, len(p.FunctionCalls))
	for _, fc := range p.FunctionCalls {
		calls = append(calls, ToolCall{
			ID:   fc.ID,
			Name: fc.Name,
			Args: fc.Args,
		})
	}
	return ToolCallBatch{Calls: calls}
}
