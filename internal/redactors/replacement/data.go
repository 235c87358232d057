// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package replacement

// French-speaking Switzerland name and place tables used for pseudonyms.

var maleFirstNames = []string{
	"Alain", "Alexandre", "André", "Antoine", "Arnaud", "Baptiste", "Benoît", "Bernard",
	"Christophe", "Christian", "Cédric", "Daniel", "David", "Didier", "Éric", "Étienne",
	"Fabien", "François", "Frédéric", "Gabriel", "Gérard", "Guillaume", "Hugo", "Jacques",
	"Jean", "Jérôme", "Joël", "Julien", "Laurent", "Louis", "Luc", "Lucas", "Marc",
	"Mathieu", "Maxime", "Michel", "Nicolas", "Olivier", "Pascal", "Patrick", "Philippe",
	"Pierre", "Raphaël", "Rémy", "Sébastien", "Stéphane", "Thierry", "Thomas", "Vincent",
	"Yves",
}

var femaleFirstNames = []string{
	"Agnès", "Alice", "Amélie", "Anne", "Aurélie", "Béatrice", "Brigitte", "Caroline",
	"Catherine", "Céline", "Chantal", "Chloé", "Christine", "Claire", "Corinne", "Delphine",
	"Élise", "Émilie", "Emma", "Fabienne", "Florence", "Françoise", "Hélène", "Isabelle",
	"Jacqueline", "Julie", "Juliette", "Laura", "Léa", "Louise", "Lucie", "Manon",
	"Marie", "Marion", "Martine", "Mathilde", "Monique", "Nathalie", "Nicole", "Patricia",
	"Pauline", "Sandrine", "Sarah", "Sophie", "Stéphanie", "Sylvie", "Valérie", "Véronique",
	"Virginie", "Zoé",
}

// Names given to either gender in the region.
var unisexFirstNames = []string{
	"Camille", "Claude", "Dominique", "Alix", "Sacha", "Maxence", "Andrea", "Charlie",
	"Lou", "Morgan",
}

var lastNames = []string{
	"Aebischer", "Ançay", "Baudin", "Berset", "Blanc", "Bonvin", "Borel", "Bovet",
	"Brunner", "Chappuis", "Chevalley", "Clerc", "Cornaz", "Cretton", "Cuendet", "Dubois",
	"Dufour", "Dupraz", "Favre", "Fontannaz", "Gaillard", "Gander", "Gay", "Genoud",
	"Gerber", "Girard", "Golay", "Guex", "Jaquier", "Jaquet", "Joye", "Lambert",
	"Leuba", "Maillard", "Marchand", "Martin", "Mercier", "Meylan", "Michaud", "Monnier",
	"Morand", "Muller", "Pasche", "Perrin", "Perret", "Pittet", "Python", "Rey",
	"Richard", "Rochat", "Rossier", "Roulin", "Roux", "Savary", "Schmid", "Tschopp",
	"Vuilleumier", "Zbinden", "Zufferey", "Voutaz",
}

var swissCities = []string{
	"Lausanne", "Genève", "Fribourg", "Neuchâtel", "Sion", "Yverdon-les-Bains",
	"Montreux", "Vevey", "Nyon", "Morges", "Renens", "Bulle", "Martigny", "Monthey",
	"Delémont", "La Chaux-de-Fonds", "Sierre", "Pully", "Carouge", "Meyrin",
	"Gland", "Payerne", "Aigle", "Porrentruy", "Estavayer-le-Lac", "Rolle",
}

var streetKinds = []string{"Rue", "Avenue", "Chemin", "Route", "Place", "Quai", "Passage"}

var streetNames = []string{
	"du Lac", "de la Gare", "des Alpes", "du Marché", "de Lausanne", "du Château",
	"des Vignes", "de la Forêt", "du Midi", "de l'Église", "des Tilleuls", "du Jura",
	"de Genève", "des Pâquis", "du Collège", "de la Poste", "des Fleurs", "du Moulin",
}

var companySuffixes = []string{"SA", "Sàrl", "AG", "& Cie"}

var phoneFormats = []string{
	"+41 7# ### ## ##",
	"07# ### ## ##",
	"021 ### ## ##",
	"022 ### ## ##",
	"024 ### ## ##",
	"027 ### ## ##",
}
