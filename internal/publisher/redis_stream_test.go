package publisher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValues(t *testing.T) {
	at := time.Unix(1738368000, 0)
	v := Values("run.completed", []byte(`{"id":"x"}`), at)

	assert.Equal(t, "run.completed", v["event"])
	assert.Equal(t, `{"id":"x"}`, v["data"])
	assert.Equal(t, int64(1738368000), v["timestamp"])
}
