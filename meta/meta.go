// meta/meta.go
package meta

// MIN_TURNS is the fewest turns one attack request may resolve.
const MIN_TURNS = 1

// MAX_TURNS is the most turns one attack request may resolve.
const MAX_TURNS = 10

// GO_ROUTINES defines the number of goroutines tuning experiments use.
const GO_ROUTINES = 8

// GAMES defines the number of seeded battles per tuning matchup.
const GAMES = 200
