package save

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// StateSource supplies the live values SaveGame needs at the moment an
// auto-save fires (player position, camera pose, etc.), so the auto-save
// loop doesn't need its own copy of game state.
type StateSource func() (Metadata, json.RawMessage)

// AutoSaver runs full saves to AutoSaveName on a fixed interval on its
// own goroutine, grounded on original_source's
// SaveManager::autoSaveThreadFunction (a sleep loop woken early by a
// stop flag) reimplemented with a context.Context + time.Ticker, the
// same idiom the teacher's meshing.Pool uses for worker shutdown.
type AutoSaver struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StartAutoSave launches the auto-save loop. It yields without acting if
// a manual save or load is already in progress at the moment its
// interval fires (spec §4.H "auto-save ... yields without acting if a
// manual save/load is in progress").
func (m *Manager) StartAutoSave(interval time.Duration, source StateSource) *AutoSaver {
	ctx, cancel := context.WithCancel(context.Background())
	as := &AutoSaver{cancel: cancel}

	as.wg.Add(1)
	go func() {
		defer as.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if m.IsOperationInProgress() {
					log.Printf("save: autosave skipped, a manual save/load is in progress")
					continue
				}
				meta, player := source()
				m.SaveGame(AutoSaveName, meta, player)
			}
		}
	}()
	return as
}

// Stop signals the auto-save goroutine to exit and waits for it to
// finish. Safe to call once; the zero value has nothing to stop.
func (as *AutoSaver) Stop() {
	if as == nil || as.cancel == nil {
		return
	}
	as.cancel()
	as.wg.Wait()
}
