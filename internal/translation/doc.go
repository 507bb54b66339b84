// Package translation fans English text out to a chat-completion endpoint,
// one request per target language, and collects the per-language outcomes.
// Endpoints are OpenAI (default) or Gemini, optionally behind a circuit
// breaker.
package translation
