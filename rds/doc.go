// Package rds decodes RDS/RBDS broadcast metadata from the block registers
// of an FM tuner.
//
// A Decoder is fed one RawBlockSet per poll. Fragments of the station name
// and radiotext arrive out of order and sometimes corrupted; the decoder only
// exposes a name after it has been assembled identically several cycles in a
// row, and a radiotext after one complete sweep of its segments. Everything
// else (PI, program type, flags, clock, program item number) is taken from
// each clean group as it arrives.
//
// Fragments from different stations must never mix, so callers have to call
// Reset whenever the tuned frequency changes.
package rds // import "github.com/bartgrantham/gofm-rds/rds"
