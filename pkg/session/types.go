package session

// ToolDeclaration describes one tool announced to the session at setup time.
// Declarations are construction-time data; the session is trusted to enforce
// the parameter schema before dispatching a call.
type ToolDeclaration struct {
	// Name is the unique identifier for the tool (e.g., "render_altair").
	Name string `json:"name"`

	// Description explains what the tool does, helping the model decide
	// when to use it.
	Description string `json:"description"`

	// Parameters is the JSON schema for the tool's arguments.
	// Example:
	//   map[string]any{
	//       "type": "object",
	//       "properties": map[string]any{
	//           "query": map[string]any{
	//               "type":        "string",
	//               "description": "The search query",
	//           },
	//       },
	//       "required": []string{"query"},
	//   }
	Parameters map[string]any `json:"parameters"`
}

// ToolCall is a single tool invocation requested by the session.
type ToolCall struct {
	// ID is the opaque correlation token for this call. The response
	// carrying the same ID answers this call.
	ID string

	// Name is the tool being invoked, matched case-sensitively.
	Name string

	// Args contains the parsed arguments from the session.
	Args map[string]any
}

// ToolCallBatch is one toolcall event: an ordered sequence of calls
// delivered together.
type ToolCallBatch struct {
	Calls []ToolCall
}

// ToolResponse is the correlated answer to one ToolCall.
type ToolResponse struct {
	// ID matches the ToolCall.ID this response answers.
	ID string

	// Output is the response payload: either a success payload or
	// {"error": <message>} when the handler failed.
	Output map[string]any
}
