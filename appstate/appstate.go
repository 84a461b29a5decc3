// Package appstate is the application state the map organizer UI binds to:
// known maps, archived saves, window size, and which view has focus.
package appstate

import (
	"context"
	"maps"
	"path/filepath"
	"strings"

	"github.com/delaneyj/realm/reactive"
	"golang.org/x/sync/errgroup"
)

// EventViewChanged is published with the name of the newly focused view.
const EventViewChanged = "app-view-changed"

type MapHashID string

type MapInfo struct {
	Name      string
	Width     int
	Height    int
	Installed bool
}

type MapAndSaves struct {
	MapHashID MapHashID
	Saves     []string
}

type Size struct {
	Width  int
	Height int
}

type SaveFilesCount struct {
	Custom   int
	Campaign int
	Scenario int
	Multi    int
	Hot      int
	Other    int
}

func (c SaveFilesCount) Total() int {
	return c.Custom + c.Campaign + c.Scenario + c.Multi + c.Hot + c.Other
}

// View is a focusable screen of the UI.
type View interface {
	Name() string
	Focus()
	Blur()
}

// MapSource loads map metadata, e.g. from the installed or archived maps
// directory. Implementations may be called concurrently.
type MapSource interface {
	LoadMaps(ctx context.Context) (map[MapHashID]MapInfo, error)
}

type MapSourceFunc func(ctx context.Context) (map[MapHashID]MapInfo, error)

func (f MapSourceFunc) LoadMaps(ctx context.Context) (map[MapHashID]MapInfo, error) {
	return f(ctx)
}

type State struct {
	scope *reactive.Scope

	MapsInfo             *reactive.Value[map[MapHashID]MapInfo]
	MapsAndSaves         *reactive.Value[[]MapAndSaves]
	Progress             *reactive.Value[float64]
	WindowSize           *reactive.Value[Size]
	SaveFilesCountByType *reactive.Expr[SaveFilesCount]
	ViewChanged          *reactive.Event[string, string]

	home     View
	current  View
	previous View
}

// New builds the state in a child scope of parent. home is the view that
// FocusPreviousView falls back to.
func New(parent *reactive.Scope, home View, window Size) *State {
	s := parent.CreateChild()
	st := &State{
		scope:        s,
		home:         home,
		MapsInfo:     reactive.NewValueFunc(s, map[MapHashID]MapInfo{}, nil),
		MapsAndSaves: reactive.NewValueFunc[[]MapAndSaves](s, nil, nil),
		Progress:     reactive.NewValue(s, 0.0),
		WindowSize:   reactive.NewValue(s, window),
		ViewChanged:  reactive.NewEvent[string, string](s, EventViewChanged),
	}
	st.SaveFilesCountByType = reactive.NewExpr(s, func(SaveFilesCount) SaveFilesCount {
		return CountSaveFiles(st.MapsAndSaves.Get())
	}, SaveFilesCount{}).On(st.MapsAndSaves)
	return st
}

func (st *State) Scope() *reactive.Scope {
	return st.scope
}

// LoadMaps loads every source concurrently and merges the results, later
// sources overriding earlier ones for the same map. It touches no
// reactive state and is safe to call off the reactive goroutine.
func LoadMaps(ctx context.Context, sources ...MapSource) (map[MapHashID]MapInfo, error) {
	results := make([]map[MapHashID]MapInfo, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			m, err := src.LoadMaps(ctx)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := map[MapHashID]MapInfo{}
	for _, m := range results {
		maps.Copy(merged, m)
	}
	return merged, nil
}

// Refresh loads and applies map info in one call. It blocks the calling
// goroutine while loading; loop based callers should LoadMaps elsewhere
// and Submit the MapsInfo.Set call.
func (st *State) Refresh(ctx context.Context, sources ...MapSource) error {
	merged, err := LoadMaps(ctx, sources...)
	if err != nil {
		return err
	}
	st.MapsInfo.Set(merged)
	return nil
}

// FocusView blurs the current view, remembers it as previous, focuses view
// and publishes EventViewChanged. Refocusing the current view only focuses
// it again.
func (st *State) FocusView(view View) {
	if st.current != view {
		if st.current != nil {
			st.current.Blur()
		}
		st.previous = st.current
	}
	st.current = view
	view.Focus()
	st.ViewChanged.Publish(view.Name())
}

// FocusPreviousView returns to the previously focused view, after which
// the home view becomes the fallback. It does nothing if no view was
// focused before.
func (st *State) FocusPreviousView() {
	if st.previous == nil {
		return
	}
	st.FocusView(st.previous)
	st.previous = st.home
}

func (st *State) CurrentView() View  { return st.current }
func (st *State) PreviousView() View { return st.previous }

func (st *State) Destroy() {
	st.scope.Destroy()
}

// CountSaveFiles buckets save files by extension.
func CountSaveFiles(entries []MapAndSaves) SaveFilesCount {
	var count SaveFilesCount
	for _, entry := range entries {
		for _, save := range entry.Saves {
			switch strings.ToUpper(strings.TrimPrefix(filepath.Ext(save), ".")) {
			case "DTA":
				count.Custom++
			case "CAM":
				count.Campaign++
			case "SCE":
				count.Scenario++
			case "MUL":
				count.Multi++
			case "HOT":
				count.Hot++
			default:
				count.Other++
			}
		}
	}
	return count
}
