package utils

import (
	"math/rand"
)

// GenerateContractNumber generates a random human-readable contract number
func GenerateContractNumber() string {
	return generateRandomString(ContractNumberCharset, ContractNumberLength)
}

// generateRandomString generates a random string with given charset and length
func generateRandomString(charset string, length int) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
