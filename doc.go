/*
Package autodiag is a small rule-based expert system for diagnosing vehicle faults.

It asks a sequence of yes/no questions, some of them gated on earlier answers, and then
resolves the answers against an ordered knowledge base. The first rule whose conditions
all hold is the diagnosis; when none holds the session ends without one.

# Concept

The engine is stateless. A session is an explicit domain.AnswerSet that the host carries
between calls, so the same Engine can drive a terminal questionnaire, an HTTP API and an
MCP server concurrently. Catalogs (questions plus rules) come from a ports.CatalogLoader:
the built-in Spanish vehicle catalog, a YAML/JSON file, or a catalog built in Go with pkg/dsl.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/autodiag"
		"github.com/aretw0/autodiag/pkg/domain"
	)

	func main() {
		// Empty path: built-in vehicle catalog.
		eng, err := autodiag.New("")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		answers := domain.NewAnswerSet()
		for {
			q, ok := eng.NextQuestion(ctx, answers)
			if !ok {
				break
			}
			// In a real app the value comes from the user.
			answers, err = eng.RecordAnswer(ctx, answers, q.ID, false)
			if err != nil {
				log.Fatal(err)
			}
		}

		report := eng.Diagnose(ctx, answers)
		if report.Found() {
			fmt.Println(report.Rule.Diagnosis)
		}
	}
*/
package autodiag
