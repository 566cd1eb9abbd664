// Package functions implements the edge functions the dashboards call:
//
//   - extract-colors: brand palette from image URLs
//   - analyze-sentiment: sentiment, emotions and keywords for marketing copy
//   - extract-table: OCR a table screenshot into headers, rows and markdown
//   - scrape-url: page metadata, headings, links and visible text
//   - summarize-youtube: oEmbed metadata plus an AI summary of a video
//
// Each function is a POST endpoint taking and returning JSON. Failures are
// answered with {"error": "..."} and a status derived from the error code:
// 400 for bad input, 429 when the model provider rate limits, 402 when its
// credits are exhausted and 500 otherwise. OPTIONS requests are answered
// with CORS headers so browsers can call the functions directly.
package functions
