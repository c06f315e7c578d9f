package gridline_test

import (
	"context"
	"fmt"
	"log"

	"github.com/gridline-labs/gridline"
	"github.com/gridline-labs/gridline/pkg/adapters/classifier"
)

// ExampleNew drives the embedded default flows through language selection
// and free-text classification.
func ExampleNew() {
	ctx := context.Background()

	bot, err := gridline.New(ctx, "", gridline.WithClassifier(classifier.NewKeyword(nil)))
	if err != nil {
		log.Fatal(err)
	}

	// The first message only opens the session.
	reply := bot.Handle(ctx, "example", "hi")
	fmt.Println(reply.Kind, reply.Options)

	reply = bot.Handle(ctx, "example", "English")
	fmt.Println(reply.Kind)

	reply = bot.Handle(ctx, "example", "I have a question about my bill")
	fmt.Println(reply.Kind, reply.Options)
	// Output:
	// menu [English Sinhala]
	// classification
	// menu [Check Balance Payment Methods Main Menu]
}
