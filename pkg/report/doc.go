// Package report renders upgrade and externalize results as text, JSON or Markdown.
//
// Every renderer is a pure function of an already computed result and returns
// the complete document. JSON is the lossless form; ParseUpgradeJSON and
// ParseExternalizeJSON read it back.
package report
