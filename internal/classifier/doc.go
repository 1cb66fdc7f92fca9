// Package classifier provides the binary credit risk classifiers and the
// declarative variant list the evaluation pipeline trains.
//
// Every classifier works on a gonum matrix and string labels. Whether a
// variant yields native probabilities is fixed by its Variant.Probability
// tag; Build checks the tag against the constructed model once, so callers
// never type-switch on a fitted model.
//
// All six default variants report native probabilities. The label tag
// remains for configured models without probability output.
//
// The models are implemented on gonum. The random forest bags the CART
// builder with a seeded source, and k-nearest neighbours measures distance
// with golearn's pairwise metrics.
package classifier
