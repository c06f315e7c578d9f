/*
Package dsl provides a fluent Go builder for conversation graphs.

It is an alternative to YAML flow documents for tests and for hosts that
generate menus dynamically. The result is a ports.GraphLoader.

Example usage:

	b := dsl.New()

	b.Add("start").
		Menu("Please select your language.").
		Option("English", "english_start").
		Option("Sinhala", "english_menu")

	b.Add("verification").
		Form("Please enter your 10-digit account number.", "account_number")

	b.Add("goodbye").
		End("Thank you for contacting us.")

	loader := b.Build()
	bot, err := gridline.New(ctx, "", gridline.WithLoader(loader))
*/
package dsl
