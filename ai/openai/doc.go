// Package openai provides an ai.Embedder backed by OpenAI-compatible
// embedding endpoints, including local services such as Ollama and LM Studio.
package openai
