package aitime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercase and collapse", "  Besok   JAM 6\tSore  ", "besok jam 6 sore"},
		{"trailing punctuation run", "besok jam 6 sore!!?", "besok jam 6 sore"},
		{"pukul becomes jam", "Pukul 7 pagi.", "jam 7 pagi"},
		{"every pukul", "pukul 7 atau pukul 8", "jam 7 atau jam 8"},
		{"pukul inside a word is kept", "pukulan keras", "pukulan keras"},
		{"punctuation only", "...!!", ""},
		{"punctuation separated by spaces", "selesai . !", "selesai"},
		{"inner punctuation kept", "beli roti, susu", "beli roti, susu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"Besok Pukul 6 Sore, minum obat!!",
		"selesai . ! ?",
		"a ,",
		"HARI INI jam 14:30 meeting...",
		"tolong\n\ningatkan   saya",
		"Ünïcödé  TEXT ?",
		"pukul pukul pukul.",
	}

	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}
