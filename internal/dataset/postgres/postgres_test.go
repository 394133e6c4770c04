package postgres

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"

	"github.com/i474232898/gsod-weather/internal/dataset"
)

func TestNamedArgs(t *testing.T) {
	stmt := dataset.Statement{
		Params: map[string]dataset.Param{
			"stn":          {Type: dataset.String, Value: "037720"},
			"start_date":   {Type: dataset.Date, Value: civil.Date{Year: 2020, Month: 2, Day: 29}},
			"temp_missing": {Type: dataset.Float64, Value: 9999.9},
		},
	}

	args := NamedArgs(stmt)

	assert.Len(t, args, 3)
	assert.Equal(t, "037720", args["stn"])
	assert.Equal(t, 9999.9, args["temp_missing"])
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), args["start_date"])
}
