// Copyright 2017 Google Inc.
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

package token

// legalese is the curated high-value vocabulary: words whose presence is
// strong evidence of license-shaped text. Any word observed in the rule
// corpus that isn't in this set is still tokenized, but lands in the
// low-value id range instead of the legalese range. This is deliberately a
// small, hand-picked list rather than a frequency-derived one (as the
// reference detector builds its own from corpus statistics); it is good
// enough to drive the unknown-region heuristic (C5 "unknown" matcher) and
// required-phrase/high-value scoring without a training step.
var legalese = buildSet([]string{
	"license", "licenses", "licensed", "licensing", "licensor", "licensee",
	"copyright", "copyrights", "copyrighted", "author", "authors", "holder",
	"holders", "permission", "permissions", "permitted", "granted", "grant",
	"grants", "warranty", "warranties", "disclaimed", "disclaims",
	"disclaimer", "merchantability", "fitness", "particular", "purpose",
	"liability", "liable", "damages", "incidental", "consequential",
	"indirect", "special", "exemplary", "punitive", "tort", "negligence",
	"contract", "otherwise", "arising", "software", "distribute",
	"distributed", "distribution", "redistribute", "redistributed",
	"redistribution", "redistributions", "modify", "modified",
	"modification", "modifications", "derivative", "derivatives", "works",
	"work", "source", "binary", "form", "forms", "copy", "copies",
	"condition", "conditions", "notice", "notices", "retain", "reproduce",
	"above", "following", "disclaimer", "express", "implied", "merchant",
	"trademark", "trademarks", "patent", "patents", "royalty", "terms",
	"agreement", "agree", "subject", "void", "provided", "basis", "kind",
	"including", "limited", "limitation", "limitations", "without",
	"whether", "theory", "even", "advised", "possibility", "shall",
	"herein", "hereby", "hereunder", "thereof", "whatsoever", "gnu",
	"general", "public", "lesser", "affero", "apache", "mozilla", "mit",
	"bsd", "creative", "commons", "free", "open", "version", "foundation",
	"contributors", "contributor", "material", "materials", "endorse",
	"promote", "products", "derived", "jurisdiction", "governing",
	"applicable", "law", "laws", "exclusion", "implead", "remedy",
	"remedies", "perpetual", "worldwide", "irrevocable", "royalty-free",
	"sublicense", "sublicensable", "assign", "assignable", "transfer",
	"reserved", "rights", "right", "third", "party", "parties",
})

// IsLegalese reports whether word belongs to the high-value vocabulary.
func IsLegalese(word string) bool {
	return legalese[word]
}
