// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services used by the
// extraction pipeline and the knowledge base.
//
// The package is designed around three interfaces:
//
//   - Reasoner: sends a system/user conversation to a chat model and returns its text
//   - Embedder: generates vector embeddings from text
//   - AIProvider: aggregates both for initialization and lifecycle management
//
// The reasoning handle is created once and injected into every extractor;
// nothing in the pipeline reaches for a global client.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and inspect call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	reply, err := provider.Reasoner().Complete(ctx, []ai.Message{
//	    ai.SystemMessage("Summarize this earnings call answer."),
//	    ai.UserMessage(answer),
//	})
package ai
