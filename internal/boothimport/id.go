package boothimport

import (
	"strings"

	"github.com/google/uuid"
)

func canon(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// BoothID is stable for a (pc, constituency, booth) triple, so re-importing the
// same file updates rows instead of duplicating them.
func BoothID(ns uuid.UUID, pc, constituency, booth string) string {
	name := "booth:" + canon(pc) + "|" + canon(constituency) + "|" + canon(booth)
	return uuid.NewSHA1(ns, []byte(name)).String()
}
