/*
Package ports defines the driven ports (interfaces) for the autodiag engine.

These interfaces decouple the inference core from external implementations, allowing
the engine to run against catalogs kept in memory, in YAML/JSON files, or built with the DSL.

# Key Interfaces

  - CatalogLoader: Responsible for producing the rule and question catalog.
  - Watchable: Optional capability for loaders that can signal catalog changes (hot reload).
*/
package ports
