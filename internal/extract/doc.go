// Package extract parses an expanded events listing into event records.
//
// Cards are located by a class signature rather than by position. Each field of a card
// is looked up independently and a missing field only leaves that field empty; a card
// is dropped only when no title can be found. Extraction is a pure function of the
// document, so running it twice over the same snapshot yields the same records.
package extract
