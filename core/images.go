package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/wiki"
	"github.com/huangsam/paddock/schema"
	"github.com/rs/zerolog"
)

// constructorSearchLimit bounds the "{name} racing team" generator search.
const constructorSearchLimit = 6

// ImageResolver finds a representative image for a driver or constructor.
// Lookups go cache, direct title, (constructors) team search, free-text search, sentinel.
type ImageResolver struct {
	api         contract.ImageAPI
	text        *CacheView
	image       *CacheView
	driverBytes bool
	logger      zerolog.Logger
}

// NewImageResolver builds a resolver over the text (URL) and image (bytes) namespaces.
// driverBytes also downloads and stores driver images; constructor images are always stored.
func NewImageResolver(api contract.ImageAPI, text, image contract.CacheStore, driverBytes bool, opts ...Option) *ImageResolver {
	o := buildOptions(opts)
	return &ImageResolver{
		api:         api,
		text:        NewCacheView(text, schema.TextNamespace, o.clock, o.logger),
		image:       NewCacheView(image, schema.ImageNamespace, o.clock, o.logger),
		driverBytes: driverBytes,
		logger:      o.logger,
	}
}

// imageKey is "driverImage_Given_Family" or "constructorImage_Name".
func imageKey(kind schema.EntityKind, name string) string {
	return string(kind) + "Image_" + wiki.PageTitle(name)
}

// storesBytes reports whether images of kind are persisted as bytes.
func (r *ImageResolver) storesBytes(kind schema.EntityKind) bool {
	return kind == schema.ConstructorEntity || r.driverBytes
}

// Resolve returns the image of an entity. When every lookup fails it returns the
// no-image sentinel and a nil error; only cancellation and bad input are errors.
func (r *ImageResolver) Resolve(ctx context.Context, name string, kind schema.EntityKind) (schema.ImageRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return schema.ImageRef{}, errors.New("entity name is required")
	}
	if _, ok := schema.ValidEntityKinds[kind]; !ok {
		return schema.ImageRef{}, fmt.Errorf("invalid entity kind %q: must be driver or constructor", kind)
	}
	key := imageKey(kind, name)

	if ref, ok := r.fromCache(key, name, kind); ok {
		return ref, nil
	}

	url, source, err := r.lookup(ctx, name, kind)
	if err != nil {
		return schema.NoImage(name, kind), err
	}
	if url == "" {
		r.logger.Debug().Str("entity", name).Str("kind", string(kind)).Msg("no image found")
		return schema.NoImage(name, kind), nil
	}

	ref := schema.ImageRef{Entity: name, Kind: kind, URL: url, Source: source}
	if r.storesBytes(kind) {
		data, err := r.api.Download(ctx, url)
		if err != nil {
			r.logger.Warn().Err(err).Str("entity", name).Msg("image download failed")
		} else {
			ref.Data = data
			r.image.Put(key, data)
		}
	}
	r.text.Put(key, []byte(url))
	return ref, nil
}

func (r *ImageResolver) fromCache(key, name string, kind schema.EntityKind) (schema.ImageRef, bool) {
	url, ok := r.text.Get(key)
	if !ok || len(url) == 0 {
		return schema.ImageRef{}, false
	}
	ref := schema.ImageRef{Entity: name, Kind: kind, URL: string(url), Source: schema.CacheSource}
	if r.storesBytes(kind) {
		if data, ok := r.image.Get(key); ok {
			ref.Data = data
		}
	}
	return ref, true
}

// lookup walks the remote tiers and returns the first thumbnail URL found.
func (r *ImageResolver) lookup(ctx context.Context, name string, kind schema.EntityKind) (string, schema.ImageSource, error) {
	url, err := r.api.LookupTitle(ctx, wiki.PageTitle(name))
	if done, err := r.tierDone(ctx, "direct", name, url, err); done {
		return url, schema.DirectSource, err
	}

	if kind == schema.ConstructorEntity {
		pages, err := r.api.SearchPages(ctx, name+" racing team", constructorSearchLimit)
		url = ""
		if err == nil {
			if ranked := wiki.RankPages(name, pages); len(ranked) > 0 {
				url = ranked[0].Thumbnail
			}
		}
		if done, err := r.tierDone(ctx, "pages", name, url, err); done {
			return url, schema.PagesSource, err
		}
	}

	ids, err := r.api.Search(ctx, name)
	url = ""
	if err == nil && len(ids) > 0 {
		url, err = r.api.LookupPage(ctx, ids[0])
	}
	if done, err := r.tierDone(ctx, "search", name, url, err); done {
		return url, schema.SearchSource, err
	}
	return "", schema.NoSource, nil
}

// tierDone decides whether a tier ends the lookup: on a hit or on cancellation.
// Any other failure is logged and falls through to the next tier.
func (r *ImageResolver) tierDone(ctx context.Context, tier, name, url string, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return true, ctxErr
	}
	if err != nil {
		r.logger.Debug().Err(err).Str("tier", tier).Str("entity", name).Msg("image tier failed")
		return false, nil
	}
	return url != "", nil
}
