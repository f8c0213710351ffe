package recipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeLikeTerm(t *testing.T) {
	testCases := []struct {
		name string
		term string
		want string
	}{
		{name: "plain term untouched", term: "curry", want: "curry"},
		{name: "percent escaped", term: "100% beef", want: `100\% beef`},
		{name: "underscore escaped", term: "mac_cheese", want: `mac\_cheese`},
		{name: "backslash escaped first", term: `a\%b`, want: `a\\\%b`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, escapeLikeTerm(tc.term))
		})
	}
}
