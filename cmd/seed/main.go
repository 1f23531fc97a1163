// Command seed publishes sample orders to the intake topic: three fixed
// orders for predictable demos plus an optional batch of generated ones.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/abakirov/lakeview/internal/domain"
)

var (
	customers = []string{"CUST-001", "CUST-002", "CUST-003", "CUST-004", "CUST-005"}
	statuses  = []domain.Status{domain.StatusPending, domain.StatusCompleted, domain.StatusCancelled}
	products  = []struct {
		name  string
		price float64
	}{
		{"Laptop", 1200},
		{"Mouse", 25},
		{"Keyboard", 75},
		{"Monitor", 350},
		{"Headphones", 150},
		{"Webcam", 90},
	}
)

func fixedOrders(now time.Time) []domain.Order {
	return []domain.Order{
		{
			OrderID:      "ORD-001",
			CustomerID:   "CUST-001",
			CustomerName: "Acme Corp",
			OrderDate:    now.AddDate(0, 0, -3),
			TotalAmount:  1225,
			Status:       domain.StatusCompleted,
			Items: []domain.Item{
				{Name: "Laptop", Quantity: 1, UnitPrice: 1200},
				{Name: "Mouse", Quantity: 1, UnitPrice: 25},
			},
		},
		{
			OrderID:      "ORD-002",
			CustomerID:   "CUST-002",
			CustomerName: "Globex",
			OrderDate:    now.AddDate(0, 0, -2),
			TotalAmount:  425,
			Status:       domain.StatusPending,
			Items: []domain.Item{
				{Name: "Monitor", Quantity: 1, UnitPrice: 350},
				{Name: "Keyboard", Quantity: 1, UnitPrice: 75},
			},
		},
		{
			OrderID:      "ORD-003",
			CustomerID:   "CUST-003",
			CustomerName: "Initech",
			OrderDate:    now.AddDate(0, 0, -1),
			TotalAmount:  150,
			Status:       domain.StatusPending,
			Items: []domain.Item{
				{Name: "Headphones", Quantity: 1, UnitPrice: 150},
			},
		},
	}
}

func randomOrder(r *rand.Rand, seq int, now time.Time) domain.Order {
	n := 1 + r.Intn(3)
	items := make([]domain.Item, 0, n)
	var total float64
	for i := 0; i < n; i++ {
		p := products[r.Intn(len(products))]
		qty := 1 + r.Intn(3)
		items = append(items, domain.Item{Name: p.name, Quantity: qty, UnitPrice: p.price})
		total += float64(qty) * p.price
	}
	return domain.Order{
		OrderID:     fmt.Sprintf("ORD-%03d", seq),
		CustomerID:  customers[r.Intn(len(customers))],
		OrderDate:   now.AddDate(0, 0, -r.Intn(30)),
		TotalAmount: total,
		Status:      statuses[r.Intn(len(statuses))],
		Items:       items,
	}
}

func main() {
	brokers := flag.String("brokers", envDefault("KAFKA_BROKERS", "localhost:9092"), "comma-separated broker list")
	topic := flag.String("topic", envDefault("KAFKA_TOPIC", "orders"), "target topic")
	extra := flag.Int("n", 10, "number of generated orders on top of the fixed set")
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed")
	flag.Parse()

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	defer writer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	orders := fixedOrders(now)

	r := rand.New(rand.NewSource(*seed))
	for i := 0; i < *extra; i++ {
		orders = append(orders, randomOrder(r, 100+i, now))
	}

	sent := 0
	for _, order := range orders {
		body, err := json.Marshal(order)
		if err != nil {
			log.Printf("marshal %s: %v", order.OrderID, err)
			continue
		}
		err = writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(order.OrderID),
			Value: body,
			Time:  now,
		})
		if err != nil {
			log.Fatalf("write %s: %v", order.OrderID, err)
		}
		sent++
	}

	log.Printf("sent %d orders to %s", sent, *topic)
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
