// Package sentiment classifies text polarity with a word lexicon and
// generates synthetic review batches for sentiment analysis runs.
package sentiment
