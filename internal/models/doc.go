// Package models lists the chat models available to an OpenAI API key and
// marks the ones indictrans can translate with.
package models
