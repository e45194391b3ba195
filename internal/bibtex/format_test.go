package bibtex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple entry",
			in:   "@article{x, author={A}, year={2020}}",
			want: "@article{x,\n  author={A},\n  year={2020}}",
		},
		{
			name: "no space after comma",
			in:   "@book{k,title={T},year={1999}}",
			want: "@book{k,\n  title={T},\n  year={1999}}",
		},
		{
			name: "spaces around equals",
			in:   "@misc{k, note = {n}}",
			want: "@misc{k,\n  note = {n}}",
		},
		{
			name: "commas inside values untouched",
			in:   "@article{k, author={Doe, John and Roe, Jane}, title={Cats, dogs}}",
			want: "@article{k,\n  author={Doe, John and Roe, Jane},\n  title={Cats, dogs}}",
		},
		{
			name: "leading whitespace preserved",
			in:   " @article{Doe_2020, title={A}, journal={J}}",
			want: " @article{Doe_2020,\n  title={A},\n  journal={J}}",
		},
		{
			name: "no fields",
			in:   "@misc{key}",
			want: "@misc{key}",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	in := "@article{x, author={A}, year={2020}, doi={10.1/x}}"
	once := Format(in)
	assert.Equal(t, once, Format(once))
}
