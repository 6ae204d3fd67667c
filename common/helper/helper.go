package helper

import (
	"fmt"

	"github.com/dastarkhwan/dastarkhwan/common/random"
)

func GenRequestID() string {
	return GetTimeString() + random.GetRandomNumberString(8)
}

func MessageWithRequestId(message string, id string) string {
	return fmt.Sprintf("%s (request id: %s)", message, id)
}
