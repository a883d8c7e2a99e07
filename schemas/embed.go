// Package schemas holds the JSON Schema definitions for structured data
// artifacts exchanged with the LLM, embedded so commands work from any
// working directory.
package schemas

import _ "embed"

// ScenePrompts is the schema for the generated scene-prompt set
//
//go:embed scene_prompts.schema.json
var ScenePrompts []byte
