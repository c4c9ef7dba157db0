package goquery

import "github.com/fwojciec/deliver"

// DefaultDeliverers returns the built-in deliverers of matchers in dispatch
// order: specific sites before generic ones, reblogs first. matchers must
// hold the ldr, greader and instapaper site matchers; missing ones are
// skipped.
func DefaultDeliverers(matchers *Registry, newExtractor deliver.ReblogExtractorFunc) []deliver.Deliverer {
	fallback := matchers.Fallback()
	aggregators := make([]deliver.Matcher, 0, 2)
	for _, name := range []string{NameLDR, NameGoogleReader} {
		if m := matchers.Get(name); m != nil {
			aggregators = append(aggregators, m)
		}
	}
	instapaper := matchers.Get(NameInstapaper)

	var ds []deliver.Deliverer
	if newExtractor != nil {
		ds = append(ds, NewReblogDeliverer(fallback, newExtractor))
		for _, m := range aggregators {
			ds = append(ds, NewAggregatorReblogDeliverer(m, newExtractor))
		}
	}
	ds = append(ds,
		NewFlickrPhotoDeliverer(fallback),
		NewLocalPhotoDeliverer(fallback),
		NewPhotoDeliverer(fallback),
		NewYouTubeDeliverer(fallback),
		NewVimeoDeliverer(fallback),
		NewSlideShareDeliverer(fallback),
	)
	for _, m := range aggregators {
		ds = append(ds, NewQuoteDeliverer(m))
	}
	if instapaper != nil {
		ds = append(ds, NewQuoteDeliverer(instapaper))
	}
	ds = append(ds, NewQuoteDeliverer(fallback))
	for _, m := range aggregators {
		ds = append(ds, NewLinkDeliverer(m))
	}
	if instapaper != nil {
		ds = append(ds, NewLinkDeliverer(instapaper))
	}
	ds = append(ds, NewLinkDeliverer(fallback))
	return ds
}
