package connection

import (
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConnectKafkaWithRetry verifies at least one broker answers before handing
// back a writer. The writer itself is lazy; without this probe a dead broker
// would only surface on the first publish.
func ConnectKafkaWithRetry(brokers []string, maxRetries int) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err != nil {
			lastErr = err
			log.Printf("kafka dial failed (%d/%d): %v", i, maxRetries, err)
			time.Sleep(2 * time.Second)
			continue
		}
		conn.Close()

		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		}, nil
	}

	return nil, fmt.Errorf("kafka connection failed after %d retries: %w", maxRetries, lastErr)
}
