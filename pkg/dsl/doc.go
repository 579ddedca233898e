/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing autodiag catalogs.

It allows developers to define question graphs and knowledge bases using a type-safe, fluent builder
pattern instead of relying on external YAML or JSON files. This is particularly useful for unit
testing, embedding small catalogs, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/autodiag/pkg/dsl"
		"github.com/aretw0/autodiag/pkg/domain"
	)

	func main() {
		b := dsl.New("bike")

		b.Question("chain_noise").Prompt("¿Hace ruido la cadena?")
		b.Question("chain_dry").
			Prompt("¿La cadena está seca?").
			When(domain.Equals("chain_noise", true))

		b.Rule("lube").
			If("chain_noise", true).
			If("chain_dry", true).
			Diagnose("Falta de lubricación").
			Recommend("Lubricar la cadena").
			Severity(domain.SeverityLow)

		// The resulting loader can be used as a ports.CatalogLoader
		loader, _ := b.Build()
		// ... pass loader to autodiag.New("", autodiag.WithLoader(loader))
	}
*/
package dsl
