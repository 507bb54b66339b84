// Package processor contains the caller-side logic for translation requests.
// It validates input, runs the dispatcher over the selected languages,
// records each completed request in the history and renders results for
// the command line. The GUI, HTTP API and Lambda handler all drive
// translations through a Processor.
package processor
