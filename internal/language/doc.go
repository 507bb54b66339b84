// Package language defines the fixed catalog of Indian target languages.
// Every entry carries its own prompt instruction, including the script
// annotation for languages whose bare name does not pin the writing system.
package language
