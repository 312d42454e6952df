package dotfiles

import "fmt"

// The two literal values rendered into the templates. Everything else in
// the generated files is fixed text.
const (
	editorColorscheme = "habamax"
	weatherCity       = "Philadelphia"
)

// editorConfigTemplate is the generated ~/.config/nvim/init.vim. It is
// written once and never touched again; the colorscheme name is the only
// rendered value.
const editorConfigTemplate = `" Generated by setup-workstation. This file is yours now: it is written
" only when missing and never modified afterwards.
set number
set relativenumber
set tabstop=4
set shiftwidth=4
set expandtab
set smartindent
set termguicolors
set ignorecase
set smartcase
set clipboard=unnamedplus
set undofile
set splitright
set splitbelow
syntax enable
colorscheme %s

let mapleader = " "
nnoremap <leader>e :Explore<CR>
nnoremap <leader>w :write<CR>
`

// Markers delimiting the managed region of ~/.tmux.conf. Everything
// between them is rewritten on every run; everything outside is preserved.
const (
	tmuxBlockBegin = "# >>> setup-workstation managed block >>>"
	tmuxBlockEnd   = "# <<< setup-workstation managed block <<<"
)

// tmuxBlockBody is the managed tmux configuration. The weather city in the
// status line is the only rendered value; the strftime specifiers are
// escaped so they survive rendering.
const tmuxBlockBody = `set -g mouse on
set -g history-limit 50000
set -g base-index 1
setw -g pane-base-index 1
set -g renumber-windows on
set -g default-terminal "tmux-256color"
set -g status-interval 300
set -g status-right "#(curl -s wttr.in/%s?format=3) | %%d %%b %%H:%%M"
set -g @plugin 'tmux-plugins/tpm'
set -g @plugin 'tmux-plugins/tmux-sensible'
run '~/.tmux/plugins/tpm/tpm'
`

// tpmRepoURL is the tmux plugin manager repository cloned into
// ~/.tmux/plugins/tpm so the @plugin lines above resolve.
const tpmRepoURL = "https://github.com/tmux-plugins/tpm"

// EditorConfig returns the rendered init.vim contents.
func EditorConfig() string {
	return fmt.Sprintf(editorConfigTemplate, editorColorscheme)
}

// TmuxManagedBlock returns the rendered managed block, markers included,
// ending with a newline.
func TmuxManagedBlock() string {
	return tmuxBlockBegin + "\n" + fmt.Sprintf(tmuxBlockBody, weatherCity) + tmuxBlockEnd + "\n"
}
