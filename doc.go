// Package treeproj carries dependency trees across languages.
//
// 🚀 What is treeproj?
//
//	Given a sentence parsed in a source language, its translation, and a
//	word alignment between the two, treeproj:
//		• projects the weighted head candidates of the source sentence onto
//		  the target sentence (max-product rule over alignment links)
//		• rescales confidence matrices with pluggable policies
//		  (softmax, rank, z-score, row stdev, threshold)
//		• decodes the best spanning tree rooted at the artificial root
//		  (Tarjan's Chu–Liu/Edmonds contraction)
//		• reads and writes CoNLL-2006, fast_align posteriors and sentence
//		  alignments, and scores output against gold trees
//
// ✨ Absent is not zero
//
//	Every confidence matrix is a masked matrix: a cell with no evidence is
//	absent, and a present 0.0 is real evidence that an arc is worthless.
//	Projection, normalization and decoding keep the two apart.
//
// Packages:
//
//	matrix/         dense storage and the masked matrix
//	digraph/        root-inclusive weighted dependency graph
//	align/          alignment matrix, alignment file readers, POS vote projection
//	normalize/      normalization policies
//	project/        graph projection (sparse and dense strategies)
//	bfs/            breadth-first walk over present arcs (decoder reachability)
//	arborescence/   maximum/minimum spanning arborescence decoder, tree checks
//	pipeline/       normalize → project → normalize → decode, batch runner
//	conll/          CoNLL reader and writer
//	eval/           POS, UAS, LAS and LA scoring
//	vocab/          label ↔ id vocabulary
//
// Quick ASCII example:
//
//	source   the → dog → barks ← ROOT
//	           ╲     ╲      ╲
//	target   der → Hund → bellt ← ROOT
//
// The command line tool lives in cmd/treeproj:
//
//	treeproj project --source src.conll --target tgt.conll --word-alignment fa.txt
//	treeproj decode  --input projected.conll
//	treeproj eval    --gold gold.conll --system decoded.conll
package treeproj
