package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/klabast/wb-services/svoz-odpadu/internal/schedule"
)

var (
	resolver   *schedule.Resolver
	rulesMutex sync.RWMutex
)

// LoadRuleset reads the dataset file and makes it the active ruleset.
func LoadRuleset() error {
	store, err := schedule.LoadRuleStore(Settings.DataFile)
	if err != nil {
		return err
	}

	SetRuleStore(store)
	log.Printf("✅ Ruleset loaded from %s (%d areas, fingerprint %s)", Settings.DataFile, len(store.Areas), store.Fingerprint())
	return nil
}

// ReloadRuleset replaces the active ruleset with the current file contents.
// The previous ruleset stays active if the file cannot be decoded.
func ReloadRuleset() (*schedule.RuleStore, error) {
	store, err := schedule.LoadRuleStore(Settings.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to reload ruleset: %w", err)
	}

	SetRuleStore(store)
	log.Printf("✅ Ruleset reloaded from %s (fingerprint %s)", Settings.DataFile, store.Fingerprint())
	return store, nil
}

// SetRuleStore installs store as the active ruleset. A nil store clears it.
func SetRuleStore(store *schedule.RuleStore) {
	var r *schedule.Resolver
	if store != nil {
		r = schedule.NewResolver(store, Settings.Policy())
	}

	rulesMutex.Lock()
	resolver = r
	rulesMutex.Unlock()
}

// CurrentResolver returns the resolver over the active ruleset, or nil before
// the first load.
func CurrentResolver() *schedule.Resolver {
	rulesMutex.RLock()
	defer rulesMutex.RUnlock()
	return resolver
}
