package storage

// Package storage persists the subscriber registry: the mapping from a
// recipient handle (Telegram username) to the chat the bot may deliver to.
// Telegram only lets a bot message users who opened a chat first, so this
// registry is what makes recipient resolution possible across restarts.
