// Package phonetic provides phonemizer backends that ask a large language
// model for IPA transcriptions. OpenAI and Gemini are supported; both send
// a whole batch as numbered lines and read the answer back by number.
package phonetic
