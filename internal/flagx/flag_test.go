package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs(t *testing.T) {
	t.Parallel()

	allowed := []string{"-d", "-s", "--secret"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separate values kept",
			args: []string{"-d", "dsn", "-x", "other", "-s", "key"},
			want: []string{"-d", "dsn", "-s", "key"},
		},
		{
			name: "combined form kept",
			args: []string{"--secret=abc", "--other=zzz"},
			want: []string{"--secret=abc"},
		},
		{
			name: "flag followed by another flag has no value",
			args: []string{"-d", "-s", "key"},
			want: []string{"-d", "-s", "key"},
		},
		{
			name: "nothing allowed",
			args: []string{"-q", "1", "-w"},
			want: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterArgs(tc.args, allowed)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("FilterArgs() = %v, want %v", got, tc.want)
			}
		})
	}
}
