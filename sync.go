package classcommands

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// commandAPI is the slice of *discordgo.Session the registrar uses.
type commandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// Registrar syncs a guild's remote command set with a registry: deletes
// remote commands no longer registered locally, and creates or updates
// commands whose definition changed since the last sync. Definition
// hashes are cached on disk so unchanged commands are not re-sent.
type Registrar struct {
	api      commandAPI
	registry *Registry
	cacheDir string
	limiter  *rate.Limiter
}

// NewRegistrar returns a registrar over the given session and registry
// (the default registry when nil). cacheDir holds per-guild hash cache
// files; empty disables the cache.
func NewRegistrar(api commandAPI, reg *Registry, cacheDir string) *Registrar {
	if reg == nil {
		reg = DefaultRegistry
	}
	return &Registrar{
		api:      api,
		registry: reg,
		cacheDir: cacheDir,
		// Command upserts are bulky writes; pace them well under
		// Discord's per-bucket limit.
		limiter: rate.NewLimiter(rate.Limit(20), 1),
	}
}

// Sync reconciles the guild's commands with the registry.
func (r *Registrar) Sync(ctx context.Context, appID, guildID string) error {
	remote, err := r.api.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("list remote commands: %w", err)
	}
	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, c := range remote {
		remoteByName[c.Name] = c
	}

	// Remote IDs are the source of truth for already-registered commands.
	for _, b := range r.registry.All() {
		if rc, ok := remoteByName[b.Name]; ok {
			b.SetID(rc.ID)
		}
	}

	hashes := r.loadHashes(guildID)
	r.deleteObsolete(guildID, appID, remoteByName, hashes)

	for _, b := range r.registry.All() {
		def := b.Definition()
		h := hashDefinition(def)
		if hashes[b.Name] == h {
			continue
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
		created, err := r.api.ApplicationCommandCreate(appID, guildID, def)
		if err != nil {
			log.Printf("[ERR] [%s] failed to register %s: %v", guildID, b.Name, err)
			continue
		}
		b.SetID(created.ID)
		hashes[b.Name] = h
		log.Printf("[INFO] [%s] registered: %s", guildID, b.Name)
	}

	r.saveHashes(guildID, hashes)
	return nil
}

// deleteObsolete removes remote commands that are no longer registered.
func (r *Registrar) deleteObsolete(guildID, appID string, remote map[string]*discordgo.ApplicationCommand, hashes map[string]string) {
	for name, rc := range remote {
		if r.registry.Get(name) != nil {
			continue
		}
		log.Printf("[INFO] [%s] deleting obsolete command: %s", guildID, name)
		if err := r.api.ApplicationCommandDelete(appID, guildID, rc.ID); err != nil {
			log.Printf("[ERR] [%s] failed to delete %s: %v", guildID, name, err)
		} else {
			delete(hashes, name)
		}
	}
}

// --- Hash cache ---

func (r *Registrar) cachePath(guildID string) string {
	return filepath.Join(r.cacheDir, guildID+".json")
}

func (r *Registrar) loadHashes(guildID string) map[string]string {
	out := make(map[string]string)
	if r.cacheDir == "" {
		return out
	}
	if data, err := os.ReadFile(r.cachePath(guildID)); err == nil {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

func (r *Registrar) saveHashes(guildID string, hashes map[string]string) {
	if r.cacheDir == "" {
		return
	}
	path := r.cachePath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if data, err := json.MarshalIndent(hashes, "", "  "); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
}

// --- Definition hashing ---

// hashDefinition returns a deterministic SHA-1 of a command's stable
// fields, so an unchanged command is not re-registered.
func hashDefinition(c *discordgo.ApplicationCommand) string {
	stable := map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"type":        c.Type,
	}
	if len(c.Options) > 0 {
		stable["options"] = normalizeOptions(c.Options)
	}
	data, _ := json.Marshal(stable)
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]interface{} {
	out := make([]map[string]interface{}, len(opts))
	for i, o := range opts {
		out[i] = map[string]interface{}{
			"name":         o.Name,
			"description":  o.Description,
			"type":         o.Type,
			"required":     o.Required,
			"autocomplete": o.Autocomplete,
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
