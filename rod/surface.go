package rod

import (
	"context"
	"sync"

	"github.com/fwojciec/deliver"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure BrowserManager implements deliver.SurfaceOpener at compile time.
var _ deliver.SurfaceOpener = (*BrowserManager)(nil)

// OpenSurface opens a blank page in the managed browser. The page runs the
// loaded document's scripts before its HTML is read. The browser is not
// recycled while a surface is open; each surface counts toward the
// recycling threshold once closed.
func (bm *BrowserManager) OpenSurface(ctx context.Context) (deliver.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, deliver.WrapError(deliver.ECANCELED, err)
	}
	browser := bm.acquire()
	if browser == nil {
		return nil, deliver.Errorf(deliver.EINVALID, "browser is closed")
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		bm.release()
		return nil, pageError(ctx, err)
	}
	return &surface{manager: bm, page: page}, nil
}

type surface struct {
	manager *BrowserManager
	page    *rod.Page

	mu     sync.Mutex
	closed bool
}

func (s *surface) Load(ctx context.Context, url string) (string, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return "", deliver.Errorf(deliver.ECANCELED, "surface closed")
	}
	return load(ctx, s.page, url)
}

func (s *surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.page.Close()
	s.manager.release()
	return err
}
