// Package espeak implements a phonemizer backend on top of the espeak-ng
// command line tool. It adds what espeak-ng does not do on its own:
// punctuation preservation, optional stress removal, and the language
// switch and word mismatch policies.
package espeak
