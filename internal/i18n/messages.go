package i18n

// Key identifies an operator message.
type Key string

// Message keys.
const (
	PromptURL      Key = "prompt.url"
	Fetching       Key = "fetch.start"
	FetchFailed    Key = "fetch.failed"
	HTTPStatus     Key = "fetch.status"
	PageSaved      Key = "save.done"
	SaveFailed     Key = "save.failed"
	ParseFailed    Key = "parse.failed"
	Title          Key = "page.title"
	NoTitle        Key = "page.notitle"
	LinksHeader    Key = "page.links"
	ImagesHeader   Key = "page.images"
	Menu           Key = "menu"
	InvalidOption  Key = "menu.invalid"
	NoLinks        Key = "menu.nolinks"
	NoImages       Key = "menu.noimages"
	ChooseLink     Key = "choose.link"
	ChooseImage    Key = "choose.image"
	InvalidNumber  Key = "choose.invalid"
	LineTooLong    Key = "input.toolong"
	Downloading    Key = "download.start"
	Downloaded     Key = "download.done"
	DownloadFailed Key = "download.failed"
	ExifHeader     Key = "download.exif"
	ExifSensitive  Key = "download.exif.sensitive"
	Goodbye        Key = "bye"
	GrabSummary    Key = "grab.summary"
)

var english = map[Key]string{
	PromptURL:      "Enter a URL to explore: ",
	Fetching:       "Fetching %s ...",
	FetchFailed:    "Could not fetch %s: %v",
	HTTPStatus:     "Server answered %d.",
	PageSaved:      "Page saved to %s",
	SaveFailed:     "Could not save the page: %v",
	ParseFailed:    "Could not read the page: %v",
	Title:          "Title: %s",
	NoTitle:        "Title: (none)",
	LinksHeader:    "Links (%d):",
	ImagesHeader:   "Images (%d):",
	Menu:           "[l] follow a link  [i] download an image  [q] quit\n> ",
	InvalidOption:  "Invalid option.",
	NoLinks:        "This page has no links.",
	NoImages:       "This page has no images.",
	ChooseLink:     "Link number (1-%d): ",
	ChooseImage:    "Image number (1-%d): ",
	InvalidNumber:  "Invalid number, enter a value between 1 and %d.",
	LineTooLong:    "Input too long, ignored.",
	Downloading:    "Downloading %s ...",
	Downloaded:     "Image saved to %s (%d bytes)",
	DownloadFailed: "Could not download %s: %v",
	ExifHeader:     "EXIF metadata:",
	ExifSensitive:  "Warning: this image carries location, device or author details.",
	Goodbye:        "Goodbye.",
	GrabSummary:    "%d of %d images downloaded.",
}

var french = map[Key]string{
	PromptURL:      "Entrez une URL à explorer : ",
	Fetching:       "Récupération de %s ...",
	FetchFailed:    "Impossible de récupérer %s : %v",
	HTTPStatus:     "Le serveur a répondu %d.",
	PageSaved:      "Page enregistrée dans %s",
	SaveFailed:     "Impossible d'enregistrer la page : %v",
	ParseFailed:    "Impossible de lire la page : %v",
	Title:          "Titre : %s",
	NoTitle:        "Titre : (aucun)",
	LinksHeader:    "Liens (%d) :",
	ImagesHeader:   "Images (%d) :",
	Menu:           "[l] suivre un lien  [i] télécharger une image  [q] quitter\n> ",
	InvalidOption:  "Option invalide.",
	NoLinks:        "Cette page ne contient aucun lien.",
	NoImages:       "Cette page ne contient aucune image.",
	ChooseLink:     "Numéro du lien (1-%d) : ",
	ChooseImage:    "Numéro de l'image (1-%d) : ",
	InvalidNumber:  "Numéro invalide, entrez une valeur entre 1 et %d.",
	LineTooLong:    "Saisie trop longue, ignorée.",
	Downloading:    "Téléchargement de %s ...",
	Downloaded:     "Image enregistrée dans %s (%d octets)",
	DownloadFailed: "Impossible de télécharger %s : %v",
	ExifHeader:     "Métadonnées EXIF :",
	ExifSensitive:  "Attention : cette image contient des informations de lieu, d'appareil ou d'auteur.",
	Goodbye:        "Au revoir.",
	GrabSummary:    "%d images téléchargées sur %d.",
}
