package manifest

// NVMLoaderCandidates are the known locations of the nvm loader script.
// nvm installs a shell function rather than a PATH binary, so presence is
// probed through these files. The opt paths cover Homebrew installs on
// Apple Silicon and Intel; ~/.nvm is where the upstream install script
// puts it.
var NVMLoaderCandidates = []string{
	"$NVM_DIR/nvm.sh",
	"~/.nvm/nvm.sh",
	"/opt/homebrew/opt/nvm/nvm.sh",
	"/usr/local/opt/nvm/nvm.sh",
}

// Default returns the built-in provisioning table: editor, terminal
// multiplexer, JSON processor, git terminal UI, Node version manager, and
// the npm globals used across projects. Linux hosts acquire nvm through
// the runtime bootstrap instead of APT, so its row is macOS-only.
func Default() Manifest {
	return Manifest{
		Tools: []Tool{
			{
				Name:     "neovim",
				Check:    "nvim",
				Packages: map[string]string{"brew": "neovim", "apt": "neovim"},
			},
			{
				Name:     "tmux",
				Check:    "tmux",
				Packages: map[string]string{"brew": "tmux", "apt": "tmux"},
			},
			{
				Name:     "jq",
				Check:    "jq",
				Packages: map[string]string{"brew": "jq", "apt": "jq"},
			},
			{
				Name:     "lazygit",
				Check:    "lazygit",
				Packages: map[string]string{"brew": "lazygit", "apt": "lazygit"},
				// Older Ubuntu releases have no lazygit package; fall back
				// to the upstream release archive.
				Release: &Release{Repo: "jesseduffield/lazygit"},
			},
			{
				Name:       "nvm",
				CheckFiles: NVMLoaderCandidates,
				Packages:   map[string]string{"brew": "nvm"},
				Platforms:  []string{"darwin"},
			},
		},
		Globals: []Global{
			{Name: "typescript", Check: "tsc"},
			{Name: "prettier", Check: "prettier"},
			{Name: "eslint", Check: "eslint"},
		},
	}
}
