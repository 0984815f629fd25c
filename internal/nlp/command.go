package nlp

// Command is the structured action derived from one classified transcript,
// ready for execution by a calendar mutator.
type Command struct {
	Action     string            `json:"action"`
	Parameters map[string]string `json:"parameters"`
}

// BuildCommand folds entities into a parameter map keyed by entity type.
// Later entities of the same type overwrite earlier ones (last-write-wins in
// extraction order, not confidence order). Pure and total: it always
// succeeds given well-formed inputs.
func BuildCommand(intent Intent, entities []Entity) Command {
	params := make(map[string]string, len(entities))
	for _, e := range entities {
		params[string(e.Type)] = e.Value
	}
	return Command{
		Action:     string(intent.Type),
		Parameters: params,
	}
}

// Interpretation bundles the full result of running the interpreter over one
// transcript.
type Interpretation struct {
	Normalized string   `json:"normalized"`
	Intent     Intent   `json:"intent"`
	Entities   []Entity `json:"entities"`
	Command    Command  `json:"command"`
}

// Interpret runs the complete pipeline: normalization, then entity
// extraction and intent classification (independent of each other), then
// command construction.
func Interpret(transcript string) Interpretation {
	text := Normalize(transcript)
	entities := ExtractEntities(text)
	intent := ClassifyIntent(text)
	return Interpretation{
		Normalized: text,
		Intent:     intent,
		Entities:   entities,
		Command:    BuildCommand(intent, entities),
	}
}
