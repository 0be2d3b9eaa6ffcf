package history

import (
	"fmt"
	"time"

	"github.com/cadence-player/cadence/util"
)

// Record is one track in the playback history.
type Record struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	PlayCount  int       `json:"play_count"`
	LastOffset float64   `json:"last_offset"`
	Length     float64   `json:"length"`
	LastPlayed time.Time `json:"last_played"`
}

func (r *Record) String() string {
	return fmt.Sprintf("%s : played %s, last at %s",
		r.Name,
		util.Quantify(r.PlayCount, "time", "times"),
		util.Clock(int(r.LastOffset)),
	)
}
