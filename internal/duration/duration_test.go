package duration

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT0M", 0},
		{"PT2H", 120},
		{"PT1H30M", 90},
		{"PT90M", 90},
		{"PT45M", 45},
		{"PT1H30M15S", 90},
		{"P1DT2H", 120},
		{"P1D", 0},
		{" PT10M ", 10},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "P", "PT", "P1DT", "1H30M", "PT1.5H", "PT-5M", "PTXM", "01:30", "PT153722867280912931H", "PT153722867280912930H59M"} {
		t.Run(in, func(t *testing.T) {
			_, err := Decode(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))

			var fe *FormatError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "PT0M", Encode(0))
	assert.Equal(t, "PT45M", Encode(45))
	assert.Equal(t, "PT1H", Encode(60))
	assert.Equal(t, "PT1H30M", Encode(90))
	assert.Equal(t, "PT25H1M", Encode(1501))
	assert.Equal(t, "PT0M", Encode(-5))
}

func TestRoundTripMinutes(t *testing.T) {
	for m := 0; m <= 3000; m++ {
		got, err := Decode(Encode(m))
		require.NoError(t, err)
		require.Equal(t, m, got, "minutes %d", m)
	}
}

func TestRoundTripWireValue(t *testing.T) {
	for _, s := range []string{"PT0M", "PT2H", "PT90M", "PT1H30M", "PT0H5M", "PT3H0M"} {
		want, err := Decode(s)
		require.NoError(t, err)

		got, err := Decode(Encode(want))
		require.NoError(t, err)
		assert.Equal(t, want, got, s)
	}
}

func TestMinutesJSON(t *testing.T) {
	var payload struct {
		D Minutes `json:"d"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"d":"PT1H30M"}`), &payload))
	assert.Equal(t, Minutes(90), payload.D)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"PT1H30M"}`, string(out))

	err = json.Unmarshal([]byte(`{"d":90}`), &payload)
	assert.ErrorIs(t, err, ErrFormat)
}
