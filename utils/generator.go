package utils

import (
	"math/rand"
	"strings"
	"time"
)

const meetCodeLetters = "abcdefghijklmnopqrstuvwxyz"

// GenerateMeetCode returns a room code shaped like "xxxx-xxxx-xxxx".
func GenerateMeetCode() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	groups := make([]string, 3)
	for i := range groups {
		b := make([]byte, 4)
		for j := range b {
			b[j] = meetCodeLetters[seededRand.Intn(len(meetCodeLetters))]
		}
		groups[i] = string(b)
	}
	return strings.Join(groups, "-")
}
